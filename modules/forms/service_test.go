package forms_test

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/modules/forms"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const formsYAML = `
forms:
  signup:
    email: [required, email]
    name:
      - required
      - minLength=3
    age: [number, min=18]
  newsletter:
    email: [email]
`

func newFormSet(t *testing.T) validator.FormSet {
	t.Helper()
	fs, err := validator.ParseFormSet([]byte(formsYAML), validator.FormatYAML)
	require.NoError(t, err)
	return fs
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(t.Context(), i18n.DefaultCatalog())
	require.NoError(t, err)
	return tr
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "s" + strconv.FormatInt(n.Add(1), 10)
	}
}

func newService(t *testing.T, opts ...forms.Option) *forms.Service {
	t.Helper()
	opts = append([]forms.Option{forms.WithIDGenerator(sequentialIDs())}, opts...)
	svc, err := forms.New(newFormSet(t), opts...)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects broken form sets", func(t *testing.T) {
		t.Parallel()
		_, err := forms.New(validator.FormSet{
			"broken": {"name": {{Rule: "minLength"}}},
		})
		assert.ErrorIs(t, err, validator.ErrMissingParam)
	})

	t.Run("lists forms sorted", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		assert.Equal(t, []forms.FormInfo{
			{Name: "newsletter", Fields: []string{"email"}},
			{Name: "signup", Fields: []string{"age", "email", "name"}},
		}, svc.Forms())
	})
}

func TestService_Describe(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	view, err := svc.Describe("signup")
	require.NoError(t, err)
	assert.Equal(t, "signup", view.Name)
	require.Len(t, view.Fields["name"], 2)
	assert.Equal(t, validator.RuleMinLength, view.Fields["name"][1].Rule)

	_, err = svc.Describe("missing")
	assert.ErrorIs(t, err, forms.ErrFormNotFound)
}

func TestService_Validate(t *testing.T) {
	t.Parallel()

	t.Run("collects failures per field", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		results, err := svc.Validate(t.Context(), "signup", "en", validator.Record{
			"email": "not-an-email",
			"name":  "Al",
		})
		require.NoError(t, err)
		assert.False(t, results.Valid())
		assert.Equal(t, []string{"Invalid email address"}, results["email"].Errors)
		assert.Equal(t, []string{"Minimum length is 3"}, results["name"].Errors)
		assert.NotContains(t, results, "age")
	})

	t.Run("localizes messages", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, forms.WithTranslator(newTranslator(t)))
		results, err := svc.Validate(t.Context(), "signup", "es", validator.Record{"name": "Al"})
		require.NoError(t, err)
		assert.Equal(t, []string{"La longitud mínima es 3"}, results["name"].Errors)
	})

	t.Run("unknown form", func(t *testing.T) {
		t.Parallel()
		svc := newService(t)
		_, err := svc.Validate(t.Context(), "missing", "en", validator.Record{})
		assert.ErrorIs(t, err, forms.ErrFormNotFound)
	})
}

func TestService_ValidateField(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	result, err := svc.ValidateField("signup", "age", "en", "17")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Minimum value is 18"}, result.Errors)

	result, err = svc.ValidateField("signup", "nickname", "en", "anything")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestService_SessionLifecycle(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newService(t)

	state, err := svc.CreateSession(ctx, "signup", "en", validator.Record{"email": "", "name": ""})
	require.NoError(t, err)
	assert.Equal(t, "s1", state.ID)
	assert.Equal(t, "signup", state.Form)
	assert.True(t, state.Valid())

	state, err = svc.ChangeField(ctx, "signup", state.ID, "en", "email", "bad")
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid email address"}, state.Errors["email"])
	assert.Equal(t, "bad", state.Values["email"])
	assert.False(t, state.Valid())

	state, err = svc.BlurField(ctx, "signup", state.ID, "en", "email")
	require.NoError(t, err)
	assert.True(t, state.Touched["email"])

	state, err = svc.ChangeField(ctx, "signup", state.ID, "en", "email", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{}, state.Errors["email"])
	assert.True(t, state.Valid())

	state, err = svc.ValidateSession(ctx, "signup", state.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"This field is required"}, state.Errors["name"])
	assert.False(t, state.Valid())

	stored, err := svc.Session(ctx, "signup", state.ID)
	require.NoError(t, err)
	assert.Equal(t, state.Errors, stored.Errors)

	state, err = svc.ResetSession(ctx, "signup", state.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, validator.Record{"email": "", "name": ""}, state.Values)
	assert.Empty(t, state.Errors)
	assert.Empty(t, state.Touched)

	require.NoError(t, svc.DeleteSession(ctx, "signup", state.ID))
	_, err = svc.Session(ctx, "signup", state.ID)
	assert.ErrorIs(t, err, forms.ErrSessionNotFound)
	assert.ErrorIs(t, err, form.ErrSessionNotFound)
}

func TestService_SessionScoping(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newService(t)

	state, err := svc.CreateSession(ctx, "signup", "en", nil)
	require.NoError(t, err)
	assert.NotNil(t, state.Values)

	_, err = svc.Session(ctx, "newsletter", state.ID)
	assert.ErrorIs(t, err, forms.ErrSessionNotFound)

	_, err = svc.ChangeField(ctx, "newsletter", state.ID, "en", "email", "x")
	assert.ErrorIs(t, err, forms.ErrSessionNotFound)

	err = svc.DeleteSession(ctx, "newsletter", state.ID)
	assert.ErrorIs(t, err, forms.ErrSessionNotFound)

	_, err = svc.Session(ctx, "missing", state.ID)
	assert.ErrorIs(t, err, forms.ErrFormNotFound)
}

func TestService_SessionKeepsLanguage(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newService(t, forms.WithTranslator(newTranslator(t)))

	state, err := svc.CreateSession(ctx, "signup", "es", nil)
	require.NoError(t, err)
	assert.Equal(t, "es", state.Lang)

	state, err = svc.ChangeField(ctx, "signup", state.ID, "", "name", "Al")
	require.NoError(t, err)
	assert.Equal(t, []string{"La longitud mínima es 3"}, state.Errors["name"])

	state, err = svc.ChangeField(ctx, "signup", state.ID, "en", "name", "Bo")
	require.NoError(t, err)
	assert.Equal(t, "en", state.Lang)
	assert.Equal(t, []string{"Minimum length is 3"}, state.Errors["name"])
}

type failingStore struct {
	form.Store
	err error
}

func (f failingStore) Create(context.Context, form.State) error { return f.err }

func TestService_StoreUnavailable(t *testing.T) {
	t.Parallel()
	svc := newService(t, forms.WithStore(failingStore{err: form.ErrStoreUnavailable}))

	_, err := svc.CreateSession(t.Context(), "signup", "en", nil)
	assert.ErrorIs(t, err, forms.ErrServiceUnavailable)
	assert.ErrorIs(t, err, form.ErrStoreUnavailable)
}
