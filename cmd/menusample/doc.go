// Package main hosts the menusample CLI.
//
// The Cobra command tree loads configuration once, builds the logger and the
// ingredient extractor, and hands them to the internal packages: sample runs
// the pipeline, runs inspects the run ledger, split and metadata derive
// artifacts from a persisted sample, and flatten turns crawled restaurant
// documents into the CSV tables the pipeline reads.
package main
