// Package htseg extracts translatable segments from HTML documents and
// merges translated content back in without disturbing document structure.
//
// The pipeline is: parse HTML into an addressable tree (package dom), walk
// it and classify every text node and attribute value (package extract with
// the Classify rule cascade), replace translatable content with placeholder
// tokens, hand the segment maps to external translation and refinement
// collaborators (package provider, cached through package memory), and
// substitute the results back into the stripped document (package merge).
//
// Basic usage:
//
//	import (
//	    "github.com/artealabs/htseg/dom"
//	    "github.com/artealabs/htseg/extract"
//	    "github.com/artealabs/htseg/merge"
//	)
//
//	func main() {
//	    doc, err := dom.ParseString(`<p>Hello <img alt="Company logo"></p>`)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res := extract.Extract(doc, extract.Options{PrimaryLang: "en"})
//
//	    translations := map[string]string{}
//	    for _, seg := range res.Segments {
//	        translations[seg.ID] = translate(seg.SourceText)
//	    }
//
//	    final, err := merge.Merge(res.Stripped, translations, merge.Options{TargetLang: "fr"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(final)
//	}
package htseg
