package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "classify_bill",
		Description: "Classify a bill into an impact tier (high, medium, low, mixed) from its title and alternate titles. Returns the matched keywords and the rule that decided the tier.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Official bill title",
				},
				"other_titles": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Short, popular or alternate titles",
				},
			},
			"required": []string{"title"},
		},
	},
	{
		Name:        "score_actions",
		Description: "Score a bill's legislative progression from its action history. Each action contributes the value of its first matching rule and contributions are summed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"actions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"description": map[string]interface{}{"type": "string"},
							"classification": map[string]interface{}{
								"type":  "array",
								"items": map[string]interface{}{"type": "string"},
							},
						},
					},
					"description": "Actions in chronological order",
				},
			},
			"required": []string{"actions"},
		},
	},
	{
		Name:        "list_runs",
		Description: "List recorded sampling runs, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only show runs from the last N days",
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "Filter by dry-run status. Omit for all runs.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_run",
		Description: "Get a sampling run with its per-tier statistics and the selected bills in selection order.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID or unique ID prefix. Omit for the latest run.",
				},
			},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate statistics over recorded sampling runs.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Calculate stats for the last N days only",
				},
			},
		},
	},
}
