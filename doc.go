// Package formflow provides:
//
// - Schema-driven validation of raw form input (text, email, password, numeric, file and
// repeatable sub-record fields) via Validate
// - A stable error model: an ErrorTree addressed by dot/bracket field paths (techs[1].title),
// one message per path, with list cardinality errors on the list's own path
// - Normalizing transforms that run only once every field passed
// - A typed, ordered Record renderable as indented text, YAML or JSON
//
// Design policy:
// - Keep the engine public API in the root package; stock checks and transforms live
// under dsl/, repeatable field state under arrayfield/, submission under submit/.
// - Validate is a pure function of the schema and the input. Default messages come
// from the schema's own catalog, never from process-wide state.
// - Errors are data: field failures are never returned as Go errors from Validate.
//
// Typical usage:
//
//	s := ff.Object().
//	    Field(ff.Text("name").Require("Name is required").Transform(dsl.TitleCase)).
//	    Field(ff.Email("email").Require("Email is required").Transform(dsl.Lower)).
//	    MustBuild()
//
//	res := ff.Validate(s, ff.RawInput{"name": "joão silva", "email": "TEST@Example.com"})
//	if rec, ok := res.Valid(); ok {
//	    fmt.Println(rec.Text())
//	}
//	if tree, ok := res.Invalid(); ok {
//	    msg, _ := ff.Project(tree, "email")
//	}
package formflow
