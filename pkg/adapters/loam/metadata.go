package loam

// TemplateMetadata represents the optional front-matter of a prompt template document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type TemplateMetadata struct {
	ID          string   `json:"id" mapstructure:"id"`
	Description string   `json:"description" mapstructure:"description"`
	Tags        []string `json:"tags,omitempty" mapstructure:"tags"`
}
