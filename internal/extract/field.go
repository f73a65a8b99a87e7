// Package extract provides Java field extraction from parsed syntax trees.
//
// This package walks a tree-sitter Java tree, finds every field declaration
// in a class body and describes it as a FieldRecord: the declared type as
// written, the variable name, the access modifier and the normalized leading
// comment.
package extract

// Modifier is the access modifier of a field.
type Modifier string

const (
	// ModifierPrivate is the private keyword.
	ModifierPrivate Modifier = "private"
	// ModifierProtected is the protected keyword.
	ModifierProtected Modifier = "protected"
	// ModifierPublic is the public keyword.
	ModifierPublic Modifier = "public"
	// ModifierNone means no access modifier was written (package-private).
	// It is the empty string, not the word "none", so YAML, JSON and TSV
	// output show an empty value for such fields.
	ModifierNone Modifier = ""
)

// FieldRecord describes one extracted field.
//
// A package-private field has Modifier ModifierNone and serializes as
// modifier: "" rather than modifier: "none".
type FieldRecord struct {
	// ID is zero-based and follows discovery order within one extraction.
	ID int `json:"id" yaml:"id"`
	// Type is the declared type: a primitive keyword or the simple name of
	// the outermost class or interface.
	Type string `json:"type" yaml:"type"`
	// Name is the declared identifier.
	Name string `json:"name" yaml:"name"`
	// Modifier is the access modifier, ModifierNone for package-private.
	Modifier Modifier `json:"modifier" yaml:"modifier"`
	// Comment is the normalized leading comment, empty when absent.
	Comment string `json:"comment" yaml:"comment"`
	// Line is the 1-based line of the variable name.
	Line int `json:"line" yaml:"line"`
}

// Result holds the outcome of extracting one input.
// A non-empty Error always comes with no Fields, so a source that failed to
// parse is never confused with a class that has no fields.
type Result struct {
	Path   string        `json:"path,omitempty" yaml:"path,omitempty"`
	Fields []FieldRecord `json:"fields" yaml:"fields"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the input did not parse.
func (r *Result) Failed() bool {
	return r.Error != ""
}
