package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// declaredProperties are the form fields shared by the verification tools.
func declaredProperties() map[string]interface{} {
	return map[string]interface{}{
		"brand_name": map[string]interface{}{
			"type":        "string",
			"description": "Brand name as declared on the application form",
		},
		"product_class": map[string]interface{}{
			"type":        "string",
			"description": "Product class or type, e.g. 'Kentucky Straight Bourbon Whiskey'",
		},
		"alcohol_content": map[string]interface{}{
			"type":        "string",
			"description": "Alcohol by volume; only the first number is compared (e.g. '45' or '45% ABV')",
		},
		"net_contents": map[string]interface{}{
			"type":        "string",
			"description": "Net contents, e.g. '750 mL'",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	verifyProps := declaredProperties()
	verifyProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the label photo (PNG, JPG or JPEG)",
	}

	textProps := declaredProperties()
	textProps["ocr_text"] = map[string]interface{}{
		"type":        "string",
		"description": "Text already read from the label",
	}

	return []Tool{
		// Verification
		{
			Name:        "label_verify",
			Description: "Read a label photo with OCR and check that the declared brand name, product class, alcohol content and net contents appear on it, together with the exact government warning statement. Returns one result per check plus an overall status.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": verifyProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "label_verify_text",
			Description: "Run the same five checks as label_verify against text that was already extracted from a label.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": textProps,
				"required":   []string{"ocr_text"},
			},
		},

		// OCR
		{
			Name:        "label_ocr",
			Description: "Preprocess a label photo (grayscale, contrast stretch) and return the text the OCR engine reads, with word bounding boxes when available.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the label photo (PNG, JPG or JPEG)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Helpers
		{
			Name:        "label_normalize",
			Description: "Show how text is normalized for the government warning comparison: lowercased, punctuation removed, whitespace collapsed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to normalize",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "label_warning_text",
			Description: "Return the government warning statement labels must carry, verbatim and normalized.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
