package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the line image file",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional display scale for the returned image (e.g., 2.0 to double size). Default 1.0",
		"default":     1.0,
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional region to crop before processing",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "line_load",
			Description: "Load a text line image and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop the cached copy and decode the file again. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_illumination",
			Description: "Remove uneven lighting and shadow from a text line. Returns the compensated image as base64 PNG and the estimated paper level.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_binarize",
			Description: "Binarize a text line. The method is chosen from the Otsu level (Sauvola below 127) unless one is forced.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "otsu", "sauvola"},
						"description": "Binarization method. Default from configuration",
					},
					"window_width": map[string]interface{}{
						"type":        "integer",
						"description": "Sauvola window width. Default half the image height",
					},
					"window_height": map[string]interface{}{
						"type":        "integer",
						"description": "Sauvola window height. Default half the image height",
					},
					"k": map[string]interface{}{
						"type":        "number",
						"description": "Sauvola k. Default 0.01",
					},
					"reference_contrast": map[string]interface{}{
						"type":        "number",
						"description": "Sauvola dynamic range R. Default 127",
					},
					"illumination": map[string]interface{}{
						"type":        "boolean",
						"description": "Compensate illumination first. Default from configuration",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_deslant",
			Description: "Find the shear that makes the strokes of a text line vertical. Returns every candidate score and the deslanted image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_preprocess",
			Description: "Run the full restoration pipeline on a text line and describe the resulting feature sequence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
					"scale":  scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "line_ocr",
			Description: "Restore a text line and recognize it with Tesseract. Returns the text with word bounding boxes. Boxes are in file coordinates when restore is false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default: eng",
						"default":     "eng",
					},
					"restore": map[string]interface{}{
						"type":        "boolean",
						"description": "Run the restoration pipeline before recognition. Default true",
						"default":     true,
					},
					"region": regionProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}
