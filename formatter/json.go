package formatter

import (
	"encoding/json"

	"github.com/theoremus-urban-solutions/railtracker/siri"
)

type responseBuilder struct{}

func newResponseBuilder() *responseBuilder { return &responseBuilder{} }

// NewResponseBuilder creates a new response builder for formatting SIRI responses
func NewResponseBuilder() *responseBuilder {
	return newResponseBuilder()
}

// BuildJSON serializes a SIRI response to JSON
func (rb *responseBuilder) BuildJSON(res *siri.SiriResponse) ([]byte, error) {
	return json.Marshal(res)
}

// Build picks the serializer by format name ("xml" or anything else for JSON)
func (rb *responseBuilder) Build(res *siri.SiriResponse, format string) ([]byte, error) {
	if format == "xml" {
		return rb.BuildXML(res), nil
	}
	return rb.BuildJSON(res)
}
