// Package sampling runs the end-to-end pipeline that turns raw restaurant and
// menu tables into the training sample.
//
// Generate loads the inputs, then walks a fixed sequence of stages: menu
// cleaning, referential sync, address parsing, density and state filtering,
// top-N selection, outlier removal, ingredient extraction, reference joins,
// and the completeness gate. Every stage goes through runStage, which logs
// row counts, records them in the run ledger, and tags failures with the
// stage name. The sample is written once every stage has succeeded; a
// failed run leaves any previous sample untouched.
package sampling
