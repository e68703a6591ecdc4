// Package autosig declares function-argument specifications separately from
// function bodies and enforces them on every call.
//
// A Param describes one argument: its default, converter, validator,
// docstring, preferred position, and whether it is keyword-only. Params are
// grouped into a Signature, and signatures compose:
//
//	paging := autosig.MustSignature(
//	    autosig.Arg("page", autosig.NewParam(autosig.WithDefault(1), autosig.WithConverter(autosig.ToInt))),
//	    autosig.Arg("size", autosig.NewParam(autosig.WithDefault(20), autosig.WithConverter(autosig.ToInt))),
//	)
//	sorting := autosig.MustSignature(
//	    autosig.Arg("order", autosig.NewParam(autosig.WithDefault("asc"), autosig.WithValidator(autosig.OneOf("asc", "desc")))),
//	)
//	list, err := paging.Add(sorting)
//
// A signature is bound to a function once. Go functions carry no parameter
// names, so a positional function names them with WithNames:
//
//	f, err := autosig.Bind(list, listItems, autosig.WithNames("page", "size", "order"))
//	out, err := f.CallKW(map[string]any{"order": "desc"}, "2")
//
// Functions taking a single struct are bound by field, with names, native
// defaults, and docs read from `arg`, `default`, and `doc` tags:
//
//	type ListArgs struct {
//	    Page  int    `arg:"page" default:"1"`
//	    Order string `arg:"order" default:"asc" doc:"sort order"`
//	}
//
//	f, err := autosig.Bind(sig, func(in ListArgs) []Item { ... })
//
// Binding checks that the signature fits the function and fails with
// ErrBind otherwise, so mismatches surface when the program starts rather
// than on the first call. Each call then assembles the arguments, converts
// and validates every one of them in order, runs the signature-level check,
// calls the function, and converts and validates the return value.
//
// Wrap returns a function of the original type that enforces the signature
// directly:
//
//	greet, err := autosig.Wrap(sig, func(name string, times int) (string, error) { ... },
//	    autosig.WithNames("name", "times"))
//
// # Concurrency
//
// Signatures and bound functions never change after construction. Calls
// to a bound function may run concurrently as long as the converters and
// validators it uses are safe for concurrent use.
package autosig
