package schema

import "fmt"

// EditorKind identifies the backoffice editor used for a property.
type EditorKind string

const (
	EditorTextBox       EditorKind = "textBox"
	EditorTextArea      EditorKind = "textArea"
	EditorRichText      EditorKind = "richText"
	EditorMediaPicker   EditorKind = "mediaPicker"
	EditorContentPicker EditorKind = "contentPicker"
	EditorInteger       EditorKind = "integer"
	EditorBoolean       EditorKind = "boolean"
	EditorDateTime      EditorKind = "dateTime"
	EditorLabel         EditorKind = "label"
)

// StorageType identifies how a property value is stored by the host.
type StorageType string

const (
	StorageText     StorageType = "text"
	StorageLongText StorageType = "longText"
	StorageInteger  StorageType = "integer"
	StorageDecimal  StorageType = "decimal"
	StorageDate     StorageType = "date"
)

// LabelPlacement controls where the property label renders in the
// backoffice editor.
type LabelPlacement string

const (
	LabelLeft   LabelPlacement = "left"
	LabelTop    LabelPlacement = "top"
	LabelHidden LabelPlacement = "hidden"
)

// DefaultStorageFor returns the storage type conventionally paired with an
// editor kind. Unknown editors default to text storage.
func DefaultStorageFor(kind EditorKind) StorageType {
	switch kind {
	case EditorTextArea, EditorRichText:
		return StorageLongText
	case EditorInteger, EditorBoolean:
		return StorageInteger
	case EditorDateTime:
		return StorageDate
	default:
		return StorageText
	}
}

// ParseEditorKind converts a raw string to an EditorKind.
func ParseEditorKind(raw string) (EditorKind, error) {
	switch EditorKind(raw) {
	case EditorTextBox, EditorTextArea, EditorRichText, EditorMediaPicker,
		EditorContentPicker, EditorInteger, EditorBoolean, EditorDateTime,
		EditorLabel:
		return EditorKind(raw), nil
	default:
		return "", fmt.Errorf("unknown editor kind: %s", raw)
	}
}
