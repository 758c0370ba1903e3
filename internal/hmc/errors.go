package hmc

import "fmt"

// ConfigError reports an invalid sampler configuration (non-positive step
// size, integration time, or number of leapfrog steps). Fatal at
// construction/setter time, adapted from the teacher's dynamo.SimulationError
// wrap-with-context style.
type ConfigError struct {
	Op      string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("hmc: %s: %s", e.Op, e.Message)
}
