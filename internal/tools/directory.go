package tools

import (
	"fmt"

	"github.com/CRui5in/agentd/internal/config"
)

// serviceAliases maps every accepted tool-type tag to its canonical service
// name. Both the short tags and the full service names are accepted.
var serviceAliases = map[string]string{
	"ppt":               "ppt_generator",
	"ppt_generator":     "ppt_generator",
	"chart":             "chart_generator",
	"chart_generator":   "chart_generator",
	"scheduler":         "schedule_reminder",
	"schedule_reminder": "schedule_reminder",
	"api-docs":          "api_doc_generator",
	"api_doc_generator": "api_doc_generator",
}

// Directory resolves tool-type tags to downstream service base URLs.
type Directory struct {
	services map[string]config.ServiceConfig
}

// NewDirectory builds a directory from the configured tool services.
func NewDirectory(services map[string]config.ServiceConfig) *Directory {
	d := &Directory{services: make(map[string]config.ServiceConfig, len(services))}
	for name, svc := range services {
		d.services[name] = svc
	}
	return d
}

// ServiceURL resolves a tool-type tag to the base URL of its service.
func (d *Directory) ServiceURL(toolType string) (string, error) {
	name, ok := serviceAliases[toolType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedToolType, toolType)
	}
	svc, ok := d.services[name]
	if !ok || !svc.Enabled {
		return "", &ServiceError{Service: name, Err: fmt.Errorf("service not available")}
	}
	return svc.URL(), nil
}

// Enabled returns the names of enabled services, for health reporting.
func (d *Directory) Enabled() []string {
	var names []string
	for name, svc := range d.services {
		if svc.Enabled {
			names = append(names, name)
		}
	}
	return names
}
