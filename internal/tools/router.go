// Package tools routes logical tool types to their execution strategy:
// LLM-authored flows for content generation and plain JSON proxying for
// everything the downstream services handle themselves.
package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/CRui5in/agentd/internal/deck"
	"github.com/CRui5in/agentd/internal/llm"
)

// Invoker sends chat messages through the active LLM provider.
type Invoker interface {
	Invoke(ctx context.Context, msgs []llm.Message, opts llm.Options) (string, error)
}

// Assembler drives the document-compilation pipeline.
type Assembler interface {
	ReadProjectSource(archivePath, mainFile string) (string, error)
	CompileText(ctx context.Context, markup, title string, useStyle bool) (*deck.Result, error)
	CompileProject(ctx context.Context, archivePath, markup, title, mainFile string, useStyle bool) (*deck.Result, error)
}

type handlerFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

// Router dispatches tool work. The handler table is resolved once at
// construction; unknown tool types fail fast with ErrUnsupportedToolType.
type Router struct {
	invoker   Invoker
	directory *Directory
	assembler Assembler
	client    *http.Client
	handlers  map[string]handlerFunc
}

// NewRouter builds a router over the given collaborators.
func NewRouter(invoker Invoker, directory *Directory, assembler Assembler) *Router {
	r := &Router{
		invoker:   invoker,
		directory: directory,
		assembler: assembler,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	r.handlers = map[string]handlerFunc{
		"ppt":                  r.generateSlides,
		"ppt_generator":        r.generateSlides,
		"chart_data_generator": r.generateChartData,
		"chart":                r.proxy("chart", "/generate_chart"),
		"chart_generator":      r.proxy("chart_generator", "/generate_chart"),
		"scheduler":            r.proxy("scheduler", "/create_schedule"),
		"schedule_reminder":    r.proxy("schedule_reminder", "/create_schedule"),
		"api-docs":             r.proxy("api-docs", "/generate_docs"),
		"api_doc_generator":    r.proxy("api_doc_generator", "/generate_docs"),
	}
	return r
}

// Dispatch executes the tool type's strategy against the parameters.
func (r *Router) Dispatch(ctx context.Context, toolType string, params map[string]any) (map[string]any, error) {
	handler, ok := r.handlers[toolType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedToolType, toolType)
	}
	return handler(ctx, params)
}

func (r *Router) generateChartData(ctx context.Context, params map[string]any) (map[string]any, error) {
	requirement := strParam(params, "user_requirement", "")
	if requirement == "" {
		return nil, fmt.Errorf("user requirement must not be empty")
	}
	chartType := strParam(params, "chart_type", "bar")
	title := strParam(params, "title", "")

	response, err := r.invoker.Invoke(ctx, []llm.Message{
		llm.System(chartDataSystem),
		llm.User(BuildChartDataPrompt(requirement, chartType, title)),
	}, llm.Options{})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status":           "success",
		"generated_data":   ExtractJSON(response),
		"chart_type":       chartType,
		"title":            title,
		"user_requirement": requirement,
	}, nil
}

func (r *Router) generateSlides(ctx context.Context, params map[string]any) (map[string]any, error) {
	title := strParam(params, "title", "Presentation")
	theme := strParam(params, "theme", "academic")
	language := strParam(params, "language", "en")
	inputType := strParam(params, "input_type", "text_description")
	useStyle := styleFlag(params)
	opts := slideOptions(params)

	if inputType == "latex_project" {
		return r.convertProject(ctx, params, title, theme, language, useStyle, opts)
	}

	prompt := strParam(params, "prompt", "")
	if prompt == "" {
		prompt = BuildSlidePrompt(inputType, strParam(params, "content", ""), title, theme, language, opts)
	}

	response, err := r.invoker.Invoke(ctx, []llm.Message{
		llm.System(slideSystem),
		llm.User(prompt),
	}, llm.Options{})
	if err != nil {
		return nil, err
	}
	markup := ExtractLaTeX(response)

	result := map[string]any{
		"status":        "success",
		"latex_content": markup,
		"title":         title,
		"theme":         theme,
		"input_type":    inputType,
	}

	compiled, err := r.assembler.CompileText(ctx, markup, title, useStyle)
	if err != nil {
		// Markup was produced; a failed compile is a partial success.
		result["pdf_compilation_error"] = err.Error()
		return result, nil
	}
	result["pdf_path"] = compiled.PDFPath
	result["success"] = true
	result["use_style"] = useStyle
	return result, nil
}

func (r *Router) convertProject(ctx context.Context, params map[string]any, title, theme, language string, useStyle bool, opts SlideOptions) (map[string]any, error) {
	archivePath := strParam(params, "uploaded_file_path", "")
	if archivePath == "" {
		return nil, fmt.Errorf("no uploaded archive path provided")
	}
	mainFile := strParam(params, "main_tex_filename", "main.tex")

	source, err := r.assembler.ReadProjectSource(archivePath, mainFile)
	if err != nil {
		return nil, fmt.Errorf("read project source: %w", err)
	}

	response, err := r.invoker.Invoke(ctx, []llm.Message{
		llm.System(convertSystem),
		llm.User(BuildSlidePrompt("latex_project", source, title, theme, language, opts)),
	}, llm.Options{})
	if err != nil {
		return nil, err
	}
	markup := ExtractLaTeX(response)

	result := map[string]any{
		"status":          "success",
		"latex_content":   markup,
		"title":           title,
		"theme":           theme,
		"input_type":      "latex_project",
		"conversion_type": "latex_to_beamer",
		"main_file":       mainFile,
	}

	compiled, err := r.assembler.CompileProject(ctx, archivePath, markup, title, mainFile, useStyle)
	if err != nil {
		result["pdf_compilation_error"] = err.Error()
		return result, nil
	}
	result["pdf_path"] = compiled.PDFPath
	result["success"] = true
	result["use_style"] = useStyle
	return result, nil
}

// proxy builds a handler that forwards the parameters verbatim to the
// service endpoint for the tool type.
func (r *Router) proxy(toolType, endpoint string) handlerFunc {
	return func(ctx context.Context, params map[string]any) (map[string]any, error) {
		base, err := r.directory.ServiceURL(toolType)
		if err != nil {
			return nil, err
		}
		return proxyJSON(ctx, r.client, toolType, base+endpoint, params)
	}
}

func slideOptions(params map[string]any) SlideOptions {
	return SlideOptions{
		SlidesCount:       intParam(params, "slides_count", 10),
		ColorScheme:       strParam(params, "color_scheme", "blue"),
		FontSize:          strParam(params, "font_size", "medium"),
		IncludeOutline:    boolParam(params, "include_outline", true),
		IncludeReferences: boolParam(params, "include_references", true),
		UseStyle:          styleFlag(params),
	}
}

// styleFlag accepts both the current and the legacy flag name.
func styleFlag(params map[string]any) bool {
	if _, ok := params["use_style"]; ok {
		return boolParam(params, "use_style", false)
	}
	return boolParam(params, "use_ucas_style", false)
}

func strParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
