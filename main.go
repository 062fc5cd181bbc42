package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/rjauquet/sitegen/cmd"
	"github.com/rjauquet/sitegen/internal/model"
)

var site model.Site

// loadSiteParams reads the optional site.yaml parameter map. Missing file
// means no params; a malformed file is an error.
func loadSiteParams(filename string) error {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading site params file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(yamlFile, &site.Params); err != nil {
		return fmt.Errorf("error unmarshalling site params file %s: %w", filename, err)
	}
	return nil
}

func main() {
	if err := loadSiteParams("site.yaml"); err != nil {
		log.Fatalf("Error loading site parameters: %v", err)
	}
	cmd.Execute(&site)
}
