package prayer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type methodsFile struct {
	Methods []Method `yaml:"methods"`
}

// LoadMethods registers every method listed in a YAML file of the form
//
//	methods:
//	  - name: KarachiHanafi
//	    fajr_angle: 18
//	    isha_angle: 18
//	    asr_shadow_factor: 2
//
// Omitted rule, rounding and shadow factor fields take the preset defaults.
// It returns the names it registered.
func LoadMethods(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read methods file: %w", err)
	}

	var file methodsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse methods file %s: %w", path, err)
	}

	// validate everything before registering anything
	for i := range file.Methods {
		m := &file.Methods[i]
		if m.AsrShadowFactor == 0 {
			m.AsrShadowFactor = 1
		}
		if m.HighLatitudeRule == "" {
			m.HighLatitudeRule = MiddleOfTheNight
		}
		if m.Rounding == "" {
			m.Rounding = RoundNearest
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("methods file %s: %w", path, err)
		}
	}

	names := make([]string, 0, len(file.Methods))
	for _, m := range file.Methods {
		if err := RegisterMethod(m); err != nil {
			return names, err
		}
		names = append(names, m.Name)
	}
	return names, nil
}
