package formstate

import (
	"errors"
	"fmt"

	"now-hiring/internal/models"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownSection  = errors.New("unknown section")
)

// Model holds one ApplicationRecord under edit. It performs no validation.
//
// Every update replaces the containers on the path to the changed leaf rather
// than writing through shared slices or pointers, so records handed out by
// Snapshot never observe later edits. A Model is not safe for concurrent use.
type Model struct {
	record models.ApplicationRecord
}

// New starts a session from the empty record.
func New() *Model {
	return &Model{record: models.NewApplicationRecord()}
}

// NewWithSource starts a session that records the embedding host page.
func NewWithSource(source string) *Model {
	m := New()
	m.record.Source = source
	return m
}

// Update replaces the leaf addressed by loc.
func (m *Model) Update(loc Locator, v Value) error {
	switch l := loc.(type) {
	case ScalarField:
		return m.updateScalar(l, v)
	case AvailabilityDay:
		if err := expectKind(l, v, models.KindText); err != nil {
			return err
		}
		return m.UpdateAvailability(l.Day, v.text)
	case AvailabilityNoPreference:
		if err := expectKind(l, v, models.KindFlag); err != nil {
			return err
		}
		m.record.Availability.NoPreference = v.flag
		return nil
	case EducationField:
		return m.UpdateEducation(l.Category, l.Attr, v)
	case ListField:
		return m.UpdateIndexed(l.Section, l.Index, l.Attr, v)
	default:
		return fmt.Errorf("%w: locator %T", models.ErrUnknownField, loc)
	}
}

func (m *Model) updateScalar(l ScalarField, v Value) error {
	f, ok := models.LookupField(l.Name)
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownField, l.Name)
	}
	if err := expectKind(l, v, f.Kind); err != nil {
		return err
	}
	if f.Kind == models.KindFlag {
		return f.SetFlag(&m.record, models.Bool(v.flag))
	}
	return f.SetText(&m.record, v.text)
}

// UpdateAvailability sets the hours for one weekday.
func (m *Model) UpdateAvailability(day models.Weekday, hours string) error {
	next := m.record.Availability
	if err := next.SetDay(day, hours); err != nil {
		return err
	}
	m.record.Availability = next
	return nil
}

// UpdateEducation sets one attribute of a fixed education category.
func (m *Model) UpdateEducation(category models.EducationCategory, attr string, v Value) error {
	entry, ok := m.record.Education.Entry(category)
	if !ok {
		return fmt.Errorf("%w: education category %q", models.ErrUnknownField, category)
	}
	if err := setAttr(models.EducationAttrs, &entry, attr, v); err != nil {
		return err
	}
	return m.record.Education.SetEntry(category, entry)
}

// UpdateIndexed sets one attribute of the element at index in a list section.
// The index must already exist; lists grow only through the Append methods.
func (m *Model) UpdateIndexed(section Section, index int, attr string, v Value) error {
	switch section {
	case SectionEmployment:
		next, err := updateElement(m.record.Employment, index, models.EmploymentAttrs, attr, v)
		if err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
		m.record.Employment = next
	case SectionReferences:
		next, err := updateElement(m.record.References, index, models.ReferenceAttrs, attr, v)
		if err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
		m.record.References = next
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil
}

func updateElement[T any](list []T, index int, attrs models.AttrSet[T], attr string, v Value) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(list))
	}
	elem := list[index]
	if err := setAttr(attrs, &elem, attr, v); err != nil {
		return nil, err
	}
	next := make([]T, len(list))
	copy(next, list)
	next[index] = elem
	return next, nil
}

func setAttr[T any](attrs models.AttrSet[T], target *T, attr string, v Value) error {
	if v.kind == models.KindFlag {
		return attrs.SetFlag(target, attr, v.flag)
	}
	return attrs.SetText(target, attr, v.text)
}

// AppendEmployment adds a blank employment entry and returns its index.
func (m *Model) AppendEmployment() int {
	m.record.Employment = append(append([]models.EmploymentEntry(nil), m.record.Employment...), models.EmploymentEntry{})
	return len(m.record.Employment) - 1
}

// AppendReference adds a blank reference and returns its index.
func (m *Model) AppendReference() int {
	m.record.References = append(append([]models.ReferenceEntry(nil), m.record.References...), models.ReferenceEntry{})
	return len(m.record.References) - 1
}

// SetAttachment fills an attachment slot. A nil or empty attachment clears it.
func (m *Model) SetAttachment(slot models.AttachmentSlot, att *models.Attachment) error {
	if att != nil && len(att.Data) == 0 {
		att = nil
	}
	if att != nil {
		cp := *att
		att = &cp
	}
	return m.record.Attachments.Set(slot, att)
}

// ClearAttachment empties an attachment slot.
func (m *Model) ClearAttachment(slot models.AttachmentSlot) error {
	return m.record.Attachments.Set(slot, nil)
}

// Reset returns the model to the empty record, optionally keeping the source.
func (m *Model) Reset(preserveSource bool) {
	source := m.record.Source
	m.record = models.NewApplicationRecord()
	if preserveSource {
		m.record.Source = source
	}
}

// Snapshot returns a deep copy of the record under edit.
func (m *Model) Snapshot() models.ApplicationRecord {
	return m.record.Clone()
}

func expectKind(loc Locator, v Value, want models.FieldKind) error {
	if v.kind != want {
		return fmt.Errorf("%w: %s expects %s, got %s", models.ErrKindMismatch, loc, want, v.kind)
	}
	return nil
}
