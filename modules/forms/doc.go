// Package forms exposes a set of configured forms over HTTP.
//
// A Service is built from a validator.FormSet. It validates whole records
// or single fields statelessly, and keeps form sessions in a form.Store so a
// client can report changes and blurs one field at a time:
//
//	fs, err := validator.LoadFormSet("forms.yaml")
//	if err != nil {
//		return err
//	}
//	svc, err := forms.New(fs,
//		forms.WithStore(form.NewRedisStore(client, "", form.DefaultTTL)),
//		forms.WithTranslator(translator),
//		forms.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	r.Mount("/forms", svc.Handle())
//
// Responses use the handler package envelope. Messages follow the request
// language negotiated from the lang query parameter, the lang cookie or
// Accept-Language.
package forms
