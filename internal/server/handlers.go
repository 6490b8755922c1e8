package server

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/htr-preproc/internal/binarize"
	"github.com/ironsheep/htr-preproc/internal/deslant"
	"github.com/ironsheep/htr-preproc/internal/illumination"
	"github.com/ironsheep/htr-preproc/internal/ocr"
	"github.com/ironsheep/htr-preproc/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "line_load", "line_preprocess").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "line_load":
		return s.handleLineLoad(args)
	case "line_illumination":
		return s.handleLineIllumination(args)
	case "line_binarize":
		return s.handleLineBinarize(args)
	case "line_deslant":
		return s.handleLineDeslant(args)
	case "line_preprocess":
		return s.handleLinePreprocess(args)
	case "line_ocr":
		return s.handleLineOCR(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// compensate applies illumination compensation when enabled.
func (s *Server) compensate(img *raster.Gray, enabled bool) (*raster.Gray, *illumination.Report, error) {
	if !enabled {
		return img, nil, nil
	}
	return illumination.Analyze(img)
}

// countNonzero counts the nonzero samples of g.
func countNonzero(g *raster.Gray) int {
	n := 0
	for _, v := range g.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// === line_load ===

type lineLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleLineLoad(args json.RawMessage) (interface{}, error) {
	var a lineLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return raster.LoadInfo(s.cache, a.Path)
}

// === line_illumination ===

type lineImageArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

// IlluminationResult describes a compensated line.
type IlluminationResult struct {
	illumination.Report
	Image *ImageResult `json:"image"`
}

func (s *Server) handleLineIllumination(args json.RawMessage) (interface{}, error) {
	var a lineImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, report, err := illumination.Analyze(img)
	if err != nil {
		return nil, err
	}
	enc, err := encodeImage(out, a.Scale)
	if err != nil {
		return nil, err
	}
	return &IlluminationResult{Report: *report, Image: enc}, nil
}

// === line_binarize ===

type lineBinarizeArgs struct {
	Path              string  `json:"path"`
	Method            *string `json:"method,omitempty"`
	WindowWidth       int     `json:"window_width"`
	WindowHeight      int     `json:"window_height"`
	K                 float64 `json:"k"`
	ReferenceContrast float64 `json:"reference_contrast"`
	Illumination      *bool   `json:"illumination,omitempty"`
	Scale             float64 `json:"scale"`
}

// BinarizeResult describes a binarized line.
type BinarizeResult struct {
	Method             string       `json:"method"`
	Forced             bool         `json:"forced"`
	OtsuLevel          int          `json:"otsu_level"`
	ForegroundFraction float64      `json:"foreground_fraction"`
	Image              *ImageResult `json:"image"`
}

func (s *Server) handleLineBinarize(args json.RawMessage) (interface{}, error) {
	var a lineBinarizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := s.pipeline.BinarizeOptions()
	if a.Method != nil {
		m, err := binarize.ParseMethod(*a.Method)
		if err != nil {
			return nil, err
		}
		opts.Force = m
	}
	if a.WindowWidth > 0 {
		opts.Sauvola.WindowWidth = a.WindowWidth
	}
	if a.WindowHeight > 0 {
		opts.Sauvola.WindowHeight = a.WindowHeight
	}
	if a.K > 0 {
		opts.Sauvola.K = a.K
	}
	if a.ReferenceContrast > 0 {
		opts.Sauvola.ReferenceContrast = a.ReferenceContrast
	}
	enabled := s.pipeline.Config().Illumination
	if a.Illumination != nil {
		enabled = *a.Illumination
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	src, _, err := s.compensate(img, enabled)
	if err != nil {
		return nil, err
	}

	res, err := binarize.Binarize(src, opts)
	if err != nil {
		return nil, err
	}
	enc, err := encodeImage(res.Image, a.Scale)
	if err != nil {
		return nil, err
	}
	return &BinarizeResult{
		Method:             res.Method.String(),
		Forced:             opts.Force != binarize.MethodAuto,
		OtsuLevel:          res.OtsuLevel,
		ForegroundFraction: float64(countNonzero(res.Image)) / float64(len(res.Image.Pix)),
		Image:              enc,
	}, nil
}

// === line_deslant ===

// DeslantResult describes a deslanted line.
type DeslantResult struct {
	Alpha      float64             `json:"alpha"`
	Score      float64             `json:"score"`
	Method     string              `json:"method"`
	Candidates []deslant.Candidate `json:"candidates"`
	Image      *ImageResult        `json:"image"`
}

func (s *Server) handleLineDeslant(args json.RawMessage) (interface{}, error) {
	var a lineImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	src, _, err := s.compensate(img, s.pipeline.Config().Illumination)
	if err != nil {
		return nil, err
	}
	bin, err := binarize.Binarize(src, s.pipeline.BinarizeOptions())
	if err != nil {
		return nil, err
	}
	res, err := deslant.Deslant(src, bin.Image)
	if err != nil {
		return nil, err
	}

	enc, err := encodeImage(res.Image, a.Scale)
	if err != nil {
		return nil, err
	}
	return &DeslantResult{
		Alpha:      res.Best.Alpha,
		Score:      res.Best.Score,
		Method:     bin.Method.String(),
		Candidates: res.Candidates,
		Image:      enc,
	}, nil
}

// === line_preprocess ===

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type linePreprocessArgs struct {
	Path   string      `json:"path"`
	Region *regionArgs `json:"region,omitempty"`
	Scale  float64     `json:"scale"`
}

// PreprocessResult describes the feature sequence of a line.
type PreprocessResult struct {
	Shape           [3]int       `json:"shape"`
	Steps           int          `json:"steps"`
	Features        int          `json:"features"`
	Method          string       `json:"method"`
	OtsuLevel       int          `json:"otsu_level"`
	Alpha           float64      `json:"alpha"`
	BackgroundLevel int          `json:"background_level"`
	Degenerate      int          `json:"degenerate"`
	PixelMean       float64      `json:"pixel_mean"`
	PixelStdDev     float64      `json:"pixel_std_dev"`
	OutputMean      float64      `json:"output_mean"`
	OutputStdDev    float64      `json:"output_std_dev"`
	Restored        *ImageResult `json:"restored"`
}

func (s *Server) handleLinePreprocess(args json.RawMessage) (interface{}, error) {
	var a linePreprocessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		img, err = raster.Crop(img, a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		if err != nil {
			return nil, err
		}
	}

	out, err := s.pipeline.Process(img)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(out.Sequence.Data))
	for i, v := range out.Sequence.Data {
		values[i] = float64(v)
	}
	mean, std := stat.PopMeanStdDev(values, nil)

	enc, err := encodeImage(out.Restored, a.Scale)
	if err != nil {
		return nil, err
	}
	return &PreprocessResult{
		Shape:           out.Sequence.Shape(),
		Steps:           out.Sequence.Steps,
		Features:        out.Sequence.Features,
		Method:          out.Method.String(),
		OtsuLevel:       out.OtsuLevel,
		Alpha:           out.Slant.Alpha,
		BackgroundLevel: out.BackgroundLevel,
		Degenerate:      out.Degenerate,
		PixelMean:       out.Stats.Mean,
		PixelStdDev:     out.Stats.StdDev,
		OutputMean:      mean,
		OutputStdDev:    std,
		Restored:        enc,
	}, nil
}

// === line_ocr ===

type lineOCRArgs struct {
	Path     string      `json:"path"`
	Language string      `json:"language"`
	Restore  *bool       `json:"restore,omitempty"`
	Region   *regionArgs `json:"region,omitempty"`
}

// OCRResult is the recognized text of a line.
type OCRResult struct {
	ocr.Result
	Restored bool     `json:"restored"`
	Alpha    float64  `json:"alpha"`
	Backend  ocr.Info `json:"backend"`
}

func (s *Server) handleLineOCR(args json.RawMessage) (interface{}, error) {
	var a lineOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = ocr.DefaultLanguage
	}
	restore := a.Restore == nil || *a.Restore

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	// Without restoration, word boxes stay in the coordinates of the file.
	if a.Region != nil && !restore {
		r := a.Region
		res, err := ocr.RecognizeRegion(img, r.X1, r.Y1, r.X2, r.Y2, a.Language)
		if err != nil {
			return nil, err
		}
		return &OCRResult{Result: *res, Backend: ocr.GetInfo()}, nil
	}
	if a.Region != nil {
		img, err = raster.Crop(img, a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		if err != nil {
			return nil, err
		}
	}

	var alpha float64
	if restore {
		out, err := s.pipeline.Process(img)
		if err != nil {
			return nil, err
		}
		img = out.Restored
		alpha = out.Slant.Alpha
	}

	res, err := ocr.Recognize(img, a.Language)
	if err != nil {
		return nil, err
	}
	return &OCRResult{Result: *res, Restored: restore, Alpha: alpha, Backend: ocr.GetInfo()}, nil
}
