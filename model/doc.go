// Package model provides the intermediate representation (IR) of a
// word-processing document as read from its package.
//
// A [Document] is built once per conversion and is read-only afterwards.
// It holds:
//
//   - Body: the ordered sequence of [Element] values ([Paragraph] or [Table])
//   - Sections: page-level groupings carrying optional header and footer content
//   - Relationships: the [RelationshipMap] joining drawing references to media
//
// # Relationships
//
// Images are never located by position. A [Run] carries zero or more
// [Drawing] values, each naming a relationship ID; the ID is looked up in
// the document's [RelationshipMap] to obtain the image bytes:
//
//	for _, d := range run.Drawings {
//	    rel, ok := doc.Relationships.Get(d.RelID)
//	    if !ok {
//	        continue // unresolved reference renders as no image
//	    }
//	    use(rel.Data)
//	}
//
// # Extracted media
//
// [ExtractedImage] describes an image written (or inlined) by the media
// extractor. Its position in the extraction list follows relationship
// encounter order and determines the sequential output filename.
package model
