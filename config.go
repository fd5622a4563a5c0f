package workerpool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptions reads pool options from a YAML file.
//
//	workers: 4
//	name: reports
//	pin_workers: false
//	retry:
//	  attempts: 3
//	  initial: 50ms
//	  max: 1s
//
// The result is validated but defaults are not filled in; NewPoolFromOptions does that.
func LoadOptions(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("workerpool: read options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("workerpool: unmarshal options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
