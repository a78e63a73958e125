// Package forms holds the per-node-type field configuration that drives the
// detail form, plus form-level validation of submitted values. Only basic
// form constraints live here; business rules belong to the backend.
package forms

import (
	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// InputKind tells the form renderer which input to use for a field
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputNumber   InputKind = "number"
	InputSwitch   InputKind = "switch"
	InputSelect   InputKind = "select"
	InputList     InputKind = "list"
	InputURL      InputKind = "url"
)

// Field describes one form field for a node type
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     InputKind `json:"kind"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

func minZero() *float64 {
	zero := 0.0
	return &zero
}

var courseFields = []Field{
	{Name: "title", Label: "Title", Kind: InputText, Required: true},
	{Name: "subtitle", Label: "Subtitle", Kind: InputText},
	{Name: "description", Label: "Description", Kind: InputTextarea},
	{Name: "price", Label: "Price", Kind: InputNumber, Min: minZero()},
	{Name: "discount_price", Label: "Discount price", Kind: InputNumber, Min: minZero()},
	{Name: "level", Label: "Level", Kind: InputSelect, Options: []string{
		string(models.CourseLevelBeginner),
		string(models.CourseLevelIntermediate),
		string(models.CourseLevelAdvanced),
	}},
	{Name: "category_id", Label: "Category", Kind: InputNumber},
	{Name: "is_published", Label: "Published", Kind: InputSwitch},
	{Name: "is_featured", Label: "Featured", Kind: InputSwitch},
	{Name: "thumbnail_url", Label: "Thumbnail URL", Kind: InputURL},
	{Name: "preview_video_url", Label: "Preview video URL", Kind: InputURL},
	{Name: "requirements", Label: "Requirements", Kind: InputTextarea},
	{Name: "what_you_learn", Label: "What you will learn", Kind: InputTextarea},
}

var sectionFields = []Field{
	{Name: "title", Label: "Title", Kind: InputText, Required: true},
	{Name: "description", Label: "Description", Kind: InputTextarea},
	{Name: "order_index", Label: "Order", Kind: InputNumber, Min: minZero()},
}

var lessonFields = []Field{
	{Name: "title", Label: "Title", Kind: InputText, Required: true},
	{Name: "description", Label: "Description", Kind: InputTextarea},
	{Name: "content_type", Label: "Content type", Kind: InputSelect, Options: []string{
		string(models.ContentTypeVideo),
		string(models.ContentTypeText),
		string(models.ContentTypeFile),
	}},
	{Name: "content_url", Label: "Content URL", Kind: InputURL},
	{Name: "content_text", Label: "Content text", Kind: InputTextarea},
	{Name: "duration", Label: "Duration (seconds)", Kind: InputNumber, Min: minZero()},
	{Name: "is_free", Label: "Free lesson", Kind: InputSwitch},
	{Name: "can_preview", Label: "Allow preview", Kind: InputSwitch},
	{Name: "order_index", Label: "Order", Kind: InputNumber, Min: minZero()},
}

var quizFields = []Field{
	{Name: "title", Label: "Title", Kind: InputText, Required: true},
	{Name: "description", Label: "Description", Kind: InputTextarea},
}

var questionFields = []Field{
	{Name: "question_text", Label: "Question", Kind: InputTextarea, Required: true},
	{Name: "options", Label: "Answer options", Kind: InputList, Required: true},
	{Name: "correct_option", Label: "Correct option", Kind: InputNumber, Required: true, Min: minZero()},
	{Name: "explanation", Label: "Explanation", Kind: InputTextarea},
	{Name: "order_index", Label: "Order", Kind: InputNumber, Min: minZero()},
	{Name: "points", Label: "Points", Kind: InputNumber, Min: minZero()},
}

// FieldsFor returns the ordered field configuration for a node type.
// Unknown types get an empty configuration.
func FieldsFor(t tree.NodeType) []Field {
	switch t {
	case tree.NodeTypeCourse:
		return courseFields
	case tree.NodeTypeSection:
		return sectionFields
	case tree.NodeTypeLesson:
		return lessonFields
	case tree.NodeTypeQuiz:
		return quizFields
	case tree.NodeTypeQuestion:
		return questionFields
	default:
		return nil
	}
}
