package tools

import (
	"fmt"
	"strings"
)

// System instructions for the authoring flows. The slide prompts forbid
// invented image references: unconstrained generation reliably produces
// plausible-looking filenames that do not exist in the bundle and break
// compilation.
const (
	chartDataSystem = "You are a professional data analyst who generates chart data from requirements. Produce JSON data in Chart.js format."

	slideSystem = "You are an expert LaTeX Beamer presentation author. Generate high-quality LaTeX code. Important: do not invent any image file names unless the user explicitly provided image files."

	convertSystem = "You are an expert LaTeX Beamer presentation author. Convert academic paper LaTeX source into a high-quality Beamer presentation. Important: inventing new image file names is strictly forbidden; only \\includegraphics references already present in the original source may be used. If the original has no images, do not add any."
)

var chartTypeDescriptions = map[string]string{
	"bar":     "a bar chart comparing values across categories",
	"line":    "a line chart showing change over time",
	"pie":     "a pie chart showing each part's share of the whole",
	"scatter": "a scatter chart showing the relationship between two variables",
}

var chartExamples = map[string]string{
	"bar": `{
  "labels": ["Category 1", "Category 2", "Category 3", "Category 4"],
  "datasets": [{
    "label": "Series name",
    "data": [10, 20, 30, 40]
  }]
}`,
	"line": `{
  "labels": ["Jan", "Feb", "Mar", "Apr", "May"],
  "datasets": [{
    "label": "Series name",
    "data": [10, 25, 15, 30, 20]
  }]
}`,
	"pie": `{
  "labels": ["Part A", "Part B", "Part C", "Part D"],
  "datasets": [{
    "data": [30, 25, 25, 20]
  }]
}`,
	"scatter": `{
  "datasets": [{
    "label": "Data points",
    "data": [
      {"x": 10, "y": 20},
      {"x": 15, "y": 25},
      {"x": 20, "y": 30}
    ]
  }]
}`,
}

const genericChartExample = `{
  "labels": ["Item 1", "Item 2", "Item 3"],
  "datasets": [{
    "label": "Data",
    "data": [10, 20, 30]
  }]
}`

// BuildChartDataPrompt builds the authoring prompt for chart-data
// generation. The mermaid type produces diagram code instead of Chart.js
// JSON.
func BuildChartDataPrompt(requirement, chartType, title string) string {
	if chartType == "mermaid" {
		return fmt.Sprintf(`Generate Mermaid diagram code for the following requirement:

Requirement: %s
Chart type: %s
Title: %s

Produce valid Mermaid syntax. Supported diagram kinds:
- flowchart: graph TD or graph LR
- sequence diagram: sequenceDiagram
- gantt chart: gantt
- class diagram: classDiagram

Reference format:
`+"```"+`
graph TD
    A[Start] --> B[Step 1]
    B --> C[Step 2]
    C --> D[End]
`+"```"+`

Requirements:
1. Pick the diagram kind that best fits the requirement.
2. Node names must be meaningful and closely tied to the requirement.
3. The flow must be logically coherent.
4. Follow Mermaid syntax strictly so the diagram renders.
5. Return only the Mermaid code, no markdown markers or commentary.

Mermaid code:`, requirement, chartType, title)
	}

	desc, ok := chartTypeDescriptions[chartType]
	if !ok {
		desc = "a chart"
	}
	example, ok := chartExamples[chartType]
	if !ok {
		example = genericChartExample
	}

	return fmt.Sprintf(`Generate data for %s based on the following requirement:

Requirement: %s
Chart type: %s
Title: %s

Produce JSON in Chart.js format. Reference shape:
%s

Requirements:
1. Data must match the requirement's topic and be meaningful.
2. Use plausible values, not obvious test data.
3. Labels and values must relate to the requirement.
4. Follow the Chart.js JSON format strictly.
5. The JSON must parse without modification.

JSON data:`, desc, requirement, chartType, title, example)
}

// SlideOptions are the style knobs for slide authoring prompts.
type SlideOptions struct {
	SlidesCount       int
	ColorScheme       string
	FontSize          string
	IncludeOutline    bool
	IncludeReferences bool
	UseStyle          bool
}

var themeSettings = map[string]string{
	"academic": `\usetheme{Madrid}\usecolortheme{default}`,
	"business": `\usetheme{CambridgeUS}\usecolortheme{beaver}`,
	"modern":   `\usetheme{metropolis}`,
	"creative": `\usetheme{Berlin}\usecolortheme{seahorse}`,
	"minimal":  `\usetheme{default}`,
}

// The style variant pins every theme to Madrid so the injected resources
// always fit the layout.
var styledThemeSettings = map[string]string{
	"academic": `\usetheme{Madrid}\usecolortheme{default}`,
	"business": `\usetheme{CambridgeUS}\usecolortheme{default}`,
	"modern":   `\usetheme{Madrid}\usecolortheme{default}`,
	"creative": `\usetheme{Madrid}\usecolortheme{default}`,
	"minimal":  `\usetheme{Madrid}\usecolortheme{default}`,
}

var colorSettings = map[string]string{
	"blue":   `\usecolortheme{default}`,
	"green":  `\usecolortheme{seahorse}`,
	"red":    `\usecolortheme{rose}`,
	"purple": `\usecolortheme{orchid}`,
	"orange": `\usecolortheme{whale}`,
}

var styledColorSettings = map[string]string{
	"blue":   `\definecolor{stylblue}{RGB}{0,82,155}\setbeamercolor{structure}{fg=stylblue}`,
	"green":  `\definecolor{stylgreen}{RGB}{0,128,0}\setbeamercolor{structure}{fg=stylgreen}`,
	"red":    `\definecolor{stylred}{RGB}{196,18,48}\setbeamercolor{structure}{fg=stylred}`,
	"purple": `\definecolor{stylpurple}{RGB}{102,45,145}\setbeamercolor{structure}{fg=stylpurple}`,
	"orange": `\definecolor{stylorange}{RGB}{255,102,0}\setbeamercolor{structure}{fg=stylorange}`,
}

var fontSizeSettings = map[string]string{
	"small":  `\tiny`,
	"medium": `\normalsize`,
	"large":  `\large`,
}

// BuildSlidePrompt builds the slide authoring prompt for the given input
// type (text_description, document_content, latex_project).
func BuildSlidePrompt(inputType, content, title, theme, language string, opts SlideOptions) string {
	if opts.SlidesCount <= 0 {
		opts.SlidesCount = 10
	}
	if opts.ColorScheme == "" {
		opts.ColorScheme = "blue"
	}
	if opts.FontSize == "" {
		opts.FontSize = "medium"
	}

	themes, colors := themeSettings, colorSettings
	if opts.UseStyle {
		themes, colors = styledThemeSettings, styledColorSettings
	}
	themeCode, ok := themes[theme]
	if !ok {
		themeCode = themes["academic"]
	}
	colorCode, ok := colors[opts.ColorScheme]
	if !ok {
		colorCode = colors["blue"]
	}
	if _, ok := fontSizeSettings[opts.FontSize]; !ok {
		opts.FontSize = "medium"
	}

	base := buildBaseRequirements(title, theme, language, themeCode, colorCode, opts)

	switch inputType {
	case "text_description":
		return fmt.Sprintf(`Generate a complete LaTeX Beamer presentation from the following text description.

%s

Text description:
%s

Analyze the description, extract the key information, and organize it into a clear slide structure.

Requirements:
1. Distribute the content over roughly %d slides with a moderate amount per slide.
2. Use clear titles and subtitles with a coherent hierarchy.
3. Convert any Markdown-formatted content into proper LaTeX.
4. Use lists and emphasis where they improve readability.
5. The output must be a complete, compilable LaTeX Beamer document.

Complete LaTeX code:`, base, content, opts.SlidesCount)

	case "document_content":
		return fmt.Sprintf(`Generate a complete LaTeX Beamer presentation from the following document.

%s

Document content:
%s

Analyze the document, extract its core points, and reorganize them into a slide structure suited to presenting.

Requirements:
1. Split the content into roughly %d slides, leading with the key points.
2. Emphasize the important information and condense the rest.
3. Keep a clear logical structure the audience can follow.
4. Keep slides presentation-friendly; avoid dense prose.
5. Balance the amount of information per slide.

Complete LaTeX code:`, base, content, opts.SlidesCount)

	case "latex_project":
		return fmt.Sprintf(`Convert the following LaTeX paper source into a LaTeX Beamer presentation.

Warning: inventing new image file names is strictly forbidden. Only \includegraphics references that already exist in the source may be used.

%s

LaTeX source:
%s

Analyze the paper structure and build an academic presentation covering:
- title and authors
- background and motivation
- contributions and method
- experimental results
- conclusions and future work

Pay particular attention to:
1. Image references: never invent file names; reuse only existing \includegraphics references, and add none if the source has none. Never use descriptive names like "Results on multiple objects.png".
2. Keep the original citation and reference commands (\cite, \ref, \label).
3. Split the content into roughly %d slides with a moderate amount per slide.
4. Preserve the important equations and tables with correct numbering.
5. The output must be a complete, compilable Beamer document with the necessary packages.
6. When results need illustrating and no figure exists, describe them in text instead of adding an image reference.

Complete LaTeX Beamer code:`, base, content, opts.SlidesCount)

	default:
		return fmt.Sprintf(`Generate a complete LaTeX Beamer presentation from the following content.

%s

Content:
%s

Requirements:
1. Extract the key information and main points.
2. Design a clear structure of roughly %d slides.
3. Use standard LaTeX Beamer syntax.
4. The output must be a complete, compilable document.
5. Keep the content easy to follow when presented.

Complete LaTeX code:`, base, content, opts.SlidesCount)
	}
}

func buildBaseRequirements(title, theme, language, themeCode, colorCode string, opts SlideOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "1. Theme: %s (%s)\n", theme, themeCode)
	fmt.Fprintf(&b, "2. Color scheme: %s (%s)\n", opts.ColorScheme, colorCode)
	fmt.Fprintf(&b, "3. Language: %s\n", language)
	fmt.Fprintf(&b, "4. Title: %s\n", title)
	fmt.Fprintf(&b, "5. Target slide count: about %d\n", opts.SlidesCount)
	fmt.Fprintf(&b, "6. Font size: %s (%s)\n", opts.FontSize, fontSizeSettings[opts.FontSize])
	fmt.Fprintf(&b, "7. Produce a complete LaTeX document structure\n")
	fmt.Fprintf(&b, "8. The generated code must be a complete, compilable LaTeX Beamer document\n")
	n := 9
	if opts.IncludeOutline {
		fmt.Fprintf(&b, "%d. Include a table-of-contents slide\n", n)
		n++
	}
	if opts.IncludeReferences {
		fmt.Fprintf(&b, "%d. Include a references slide\n", n)
	}

	outline := ""
	if opts.IncludeOutline {
		outline = `\begin{frame}{Outline}\tableofcontents\end{frame}`
	}
	references := ""
	if opts.IncludeReferences {
		references = `\begin{frame}{References}\end{frame}`
	}

	styleNote := ""
	if opts.UseStyle {
		styleNote = `
% Style resources available at these paths:
% - images/logo.png (primary logo)
% - images/bg.png (background image)
\IfFileExists{images/logo.png}{
  \setbeamertemplate{background}{
    \begin{tikzpicture}[remember picture,overlay]
      \node[at=(current page.south east),anchor=south east,inner sep=0pt] {
        \includegraphics[width=0.15\paperwidth]{images/logo.png}
      };
    \end{tikzpicture}
  }
}{}`
	}

	fmt.Fprintf(&b, `
Use this template structure:
`+"```latex"+`
\documentclass[aspectratio=169]{beamer}
\usepackage{graphicx}
%s
%s
%s

\title{%s}
\date{\today}

\begin{document}

\frame{\titlepage}

%s

%% content slides go here

%s

\end{document}
`+"```", themeCode, colorCode, styleNote, title, outline, references)

	return b.String()
}
