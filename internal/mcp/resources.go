package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	resourceKeywords  = "billsample://keywords"
	resourceLatestRun = "billsample://runs/latest"
	resourceSummary   = "billsample://summary"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         resourceKeywords,
		Name:        "Impact Keywords",
		Description: "Keyword sets used to classify bills into impact tiers",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceLatestRun,
		Name:        "Latest Run",
		Description: "Per-tier statistics of the most recent sampling run",
		MimeType:    "text/plain",
	},
	{
		URI:         resourceSummary,
		Name:        "Sampling Summary",
		Description: "Aggregate statistics over all recorded sampling runs",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
