package dto

// Module kinds accepted in application documents.
const (
	KindContainer   = "container"
	KindText        = "text"
	KindInput       = "input"
	KindHandler     = "handler"
	KindSafeHandler = "safe_handler"
	KindSelector    = "selector"
)

// Error policies for safe handlers.
const (
	OnErrorReprompt = "reprompt"
	OnErrorIgnore   = "ignore"
)

// Document is an application document: a flat list of modules wired together
// by ID. Referring to the same ID twice shares the module; cycles are allowed.
type Document struct {
	Name    string   `json:"name" mapstructure:"name"`
	Root    string   `json:"root" mapstructure:"root"`
	Modules []Module `json:"modules" mapstructure:"modules"`

	// Schema maps recorded input names to type names ("int", "string?").
	Schema map[string]string `json:"schema" mapstructure:"schema"`
}

// Module describes one builder. Fields that do not apply to Kind are ignored.
type Module struct {
	ID        string `json:"id" mapstructure:"id"`
	Kind      string `json:"kind" mapstructure:"kind"`
	Style     string `json:"style" mapstructure:"style"`
	HardStyle bool   `json:"hard_style" mapstructure:"hard_style"`

	// Children, in run order (container, and extra children of any kind).
	Children []string `json:"children" mapstructure:"children"`

	// Text
	Content   string `json:"content" mapstructure:"content"`
	Markdown  bool   `json:"markdown" mapstructure:"markdown"`
	NoNewline bool   `json:"no_newline" mapstructure:"no_newline"`

	// Input
	Prompt   string   `json:"prompt" mapstructure:"prompt"`
	Handlers []string `json:"handlers" mapstructure:"handlers"`

	// Handler / safe handler
	Logic   string `json:"logic" mapstructure:"logic"`
	OnError string `json:"on_error" mapstructure:"on_error"`
	Message string `json:"message" mapstructure:"message"`

	// Selector
	Scenes  []string `json:"scenes" mapstructure:"scenes"`
	Initial string   `json:"initial" mapstructure:"initial"`
}
