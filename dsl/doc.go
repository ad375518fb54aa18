// Package dsl provides the stock constraints and transforms used to declare
// formflow schemas.
//
// Checks return formflow.Check values typed for the field variant they apply
// to: string checks for Text/Email/Password, float64 checks for Numeric,
// formflow.Asset checks for File and int checks (the item count) for List.
// Every check takes the message it reports; an empty message falls back to
// the schema's catalog.
//
// Transforms are plain functions usable as formflow.Transform values.
//
// Example
//
//	item := ff.Object().
//	    Field(ff.Text("title").Require("Title is required")).
//	    Field(ff.Numeric("knowledge").Check(dsl.Range(1, 100, "Between 1 and 100"))).
//	    MustBuild()
//
//	s := ff.Object().
//	    Field(ff.Text("name").Require("Name is required").Transform(dsl.TitleCase)).
//	    Field(ff.Email("email").Require("Email is required").Transform(dsl.Lower)).
//	    Field(ff.List("techs", item).Check(dsl.MinItems(2, "At least 2 techs"))).
//	    Field(ff.File("avatar").Check(dsl.MaxBytes(5*dsl.MiB, "At most 5MB"))).
//	    MustBuild()
package dsl
