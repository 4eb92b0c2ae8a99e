package submissioncodec

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	formstate "now-hiring/internal/application/form-state"
	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord(t *testing.T) models.ApplicationRecord {
	t.Helper()
	m := formstate.NewWithSource("https://shop.example.com/")
	updates := []struct {
		loc formstate.Locator
		v   formstate.Value
	}{
		{formstate.ScalarField{Name: "firstName"}, formstate.Text("Jane")},
		{formstate.ScalarField{Name: "middleName"}, formstate.Text("Q")},
		{formstate.ScalarField{Name: "lastName"}, formstate.Text("Doe")},
		{formstate.ScalarField{Name: "email"}, formstate.Text("jane@x.com")},
		{formstate.ScalarField{Name: "phone"}, formstate.Text("555-0100")},
		{formstate.ScalarField{Name: "position"}, formstate.Text("Cashier")},
		{formstate.ScalarField{Name: "message"}, formstate.Text("line one\nline two")},
		{formstate.ScalarField{Name: "hasFelony"}, formstate.Flag(true)},
		{formstate.ScalarField{Name: "felonyExplanation"}, formstate.Text(`said "hi" & left`)},
		{formstate.ScalarField{Name: "certifyTrue"}, formstate.Flag(true)},
		{formstate.AvailabilityDay{Day: models.Monday}, formstate.Text("9-5")},
		{formstate.AvailabilityDay{Day: models.Sunday}, formstate.Text("off")},
		{formstate.AvailabilityNoPreference{}, formstate.Flag(true)},
		{formstate.EducationField{Category: models.College, Attr: "name"}, formstate.Text("State U")},
		{formstate.EducationField{Category: models.College, Attr: "graduated"}, formstate.Flag(true)},
		{formstate.ListField{Section: formstate.SectionEmployment, Index: 0, Attr: "employer"}, formstate.Text("Acme")},
		{formstate.ListField{Section: formstate.SectionEmployment, Index: 0, Attr: "canContact"}, formstate.Flag(true)},
		{formstate.ListField{Section: formstate.SectionReferences, Index: 1, Attr: "name"}, formstate.Text("Alex Lee")},
	}
	for _, u := range updates {
		require.NoError(t, m.Update(u.loc, u.v), u.loc.String())
	}
	require.NoError(t, m.SetAttachment(models.SlotPhoto, &models.Attachment{
		Filename: "me.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'},
	}))
	require.NoError(t, m.SetAttachment(models.SlotResume, &models.Attachment{
		Filename: `cv "final".pdf`, ContentType: "application/pdf", Data: []byte("%PDF-1.7"),
	}))
	return m.Snapshot()
}

func decodePayload(t *testing.T, p Payload, limits Limits) (*Decoded, error) {
	t.Helper()
	body, contentType, err := p.Body()
	require.NoError(t, err)
	return decodeBody(t, body.(*bytes.Buffer).Bytes(), contentType, limits)
}

func decodeBody(t *testing.T, body []byte, contentType string, limits Limits) (*Decoded, error) {
	t.Helper()
	boundary := strings.TrimPrefix(contentType, "multipart/form-data; boundary=")
	return Decode(multipart.NewReader(bytes.NewReader(body), boundary), limits)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := fullRecord(t)

	p, err := Encode(&original)
	require.NoError(t, err)

	decoded, err := decodePayload(t, p, Limits{MaxAttachmentBytes: 1 << 20})
	require.NoError(t, err)
	assert.Empty(t, decoded.Issues)
	assert.Empty(t, decoded.Unknown)
	assert.Equal(t, original, decoded.Record)
}

func TestEncodeDecode_EmptyRecord(t *testing.T) {
	original := models.NewApplicationRecord()

	p, err := Encode(&original)
	require.NoError(t, err)
	assert.Empty(t, p.Files)

	decoded, err := decodePayload(t, p, Limits{})
	require.NoError(t, err)
	assert.Equal(t, original, decoded.Record)
}

func TestEncode_WireFormat(t *testing.T) {
	r := fullRecord(t)
	r.Eligibility.VeteranStatus = nil

	p, err := Encode(&r)
	require.NoError(t, err)

	v, ok := p.Get("hasFelony")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	v, ok = p.Get("isUSCitizen")
	require.True(t, ok)
	assert.Equal(t, "false", v)

	_, ok = p.Get("veteranStatus")
	assert.False(t, ok, "unanswered flag is omitted")

	v, ok = p.Get("availability")
	require.True(t, ok)
	assert.JSONEq(t, `{"mon":"9-5","tue":"","wed":"","thu":"","fri":"","sat":"","sun":"off","noPreference":true}`, v)

	v, ok = p.Get("references")
	require.True(t, ok)
	assert.Contains(t, v, `"name":"Alex Lee"`)

	require.Len(t, p.Files, 2)
	assert.Equal(t, "photo", p.Files[0].Name)
	assert.Equal(t, "resume", p.Files[1].Name)
}

type formBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func newFormBuilder() *formBuilder {
	b := &formBuilder{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *formBuilder) field(t *testing.T, name, value string) *formBuilder {
	require.NoError(t, b.w.WriteField(name, value))
	return b
}

func (b *formBuilder) file(t *testing.T, name, filename string, data []byte) *formBuilder {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+name+`"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := b.w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	return b
}

func (b *formBuilder) decode(t *testing.T, limits Limits) (*Decoded, error) {
	require.NoError(t, b.w.Close())
	return decodeBody(t, b.buf.Bytes(), b.w.FormDataContentType(), limits)
}

func TestDecode_LenientSections(t *testing.T) {
	decoded, err := newFormBuilder().
		field(t, "firstName", "Jane").
		field(t, "availability", "{not json").
		field(t, "education", `{"college":{"name":"State U"},"bootcamp":{"name":"x"}}`).
		field(t, "employmentHistory", `"oops"`).
		field(t, "references", `[{"name":"Alex Lee"}]`).
		decode(t, Limits{})
	require.NoError(t, err)

	r := decoded.Record
	assert.Equal(t, "Jane", r.PersonalInfo.FirstName)
	assert.Equal(t, models.WeeklyAvailability{}, r.Availability)
	assert.Equal(t, "State U", r.Education.College.Name)
	assert.Nil(t, r.Employment)
	assert.Equal(t, []models.ReferenceEntry{{Name: "Alex Lee"}}, r.References)

	fields := make([]string, 0, len(decoded.Issues))
	for _, issue := range decoded.Issues {
		fields = append(fields, issue.Field)
	}
	assert.ElementsMatch(t, []string{"availability", "employmentHistory"}, fields)
}

func TestDecode_Flags(t *testing.T) {
	decoded, err := newFormBuilder().
		field(t, "hasFelony", "false").
		field(t, "canWorkNights", "on").
		field(t, "drugScreenConsent", "maybe").
		field(t, "mystery", "x").
		decode(t, Limits{})
	require.NoError(t, err)

	r := decoded.Record
	require.NotNil(t, r.Eligibility.HasFelony)
	assert.False(t, *r.Eligibility.HasFelony)
	require.NotNil(t, r.Job.CanWorkNights)
	assert.True(t, *r.Job.CanWorkNights)
	assert.Nil(t, r.Eligibility.DrugScreenConsent)
	assert.Nil(t, r.Eligibility.IsUSCitizen, "absent flag stays unanswered")

	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "drugScreenConsent", decoded.Issues[0].Field)
	assert.ErrorIs(t, decoded.Issues[0].Err, ErrInvalidFlag)
	assert.Equal(t, []string{"mystery"}, decoded.Unknown)
}

func TestDecode_Attachments(t *testing.T) {
	t.Run("zero length part is no attachment", func(t *testing.T) {
		decoded, err := newFormBuilder().
			file(t, "photo", "empty.jpg", nil).
			decode(t, Limits{MaxAttachmentBytes: 10})
		require.NoError(t, err)
		assert.Nil(t, decoded.Record.Attachments.Photo)
	})

	t.Run("at the limit", func(t *testing.T) {
		decoded, err := newFormBuilder().
			file(t, "photo", "me.jpg", bytes.Repeat([]byte{1}, 10)).
			decode(t, Limits{MaxAttachmentBytes: 10})
		require.NoError(t, err)
		require.NotNil(t, decoded.Record.Attachments.Photo)
		assert.Equal(t, "me.jpg", decoded.Record.Attachments.Photo.Filename)
		assert.Equal(t, "image/jpeg", decoded.Record.Attachments.Photo.ContentType)
		assert.Len(t, decoded.Record.Attachments.Photo.Data, 10)
	})

	t.Run("over the limit", func(t *testing.T) {
		_, err := newFormBuilder().
			file(t, "photo", "big.jpg", bytes.Repeat([]byte{1}, 11)).
			decode(t, Limits{MaxAttachmentBytes: 10})
		stdErr, ok := stderrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, stderrors.ErrCodeAttachmentTooLarge, stdErr.Code)
	})

	t.Run("unknown file part is drained", func(t *testing.T) {
		decoded, err := newFormBuilder().
			file(t, "avatar", "a.jpg", []byte{1, 2}).
			field(t, "firstName", "Jane").
			decode(t, Limits{})
		require.NoError(t, err)
		assert.Equal(t, "Jane", decoded.Record.PersonalInfo.FirstName)
		assert.Equal(t, []string{"avatar"}, decoded.Unknown)
	})
}

func TestDecode_BrokenStream(t *testing.T) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"firstName\"\r\n\r\nJane"
	_, err := Decode(multipart.NewReader(strings.NewReader(body), "xyz"), Limits{})
	stdErr, ok := stderrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeInvalidRequest, stdErr.Code)
}

func TestDecode_FieldTooLarge(t *testing.T) {
	_, err := newFormBuilder().
		field(t, "message", strings.Repeat("a", 33)).
		decode(t, Limits{MaxFieldBytes: 32})
	stdErr, ok := stderrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeInvalidRequest, stdErr.Code)
}
