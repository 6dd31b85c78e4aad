// Package annotation provides the typed model of a Manga109 annotation corpus
// and the parse step that produces it from annotation markup.
//
// # Core Types
//
//   - Corpus: every book listed in the manifest, in reading order
//   - Book: one annotation file, with its characters and pages
//   - Character: a named character declared by a book
//   - Page: one page with its width, height and elements
//   - Element: a body, face, frame or text box on a page
//
// # Markup
//
// Annotation files have the layout
//
//	<book title="...">
//	  <characters>
//	    <character id="..." name="..."/>
//	  </characters>
//	  <pages>
//	    <page index="0" width="..." height="...">
//	      <face id="..." xmin="..." ymin="..." xmax="..." ymax="..." character="..."/>
//	      <text id="..." xmin="..." ymin="..." xmax="..." ymax="...">...</text>
//	    </page>
//	  </pages>
//	</book>
//
// Decode expects markup that already passed the schema checks; it fails on
// the first structural problem rather than collecting them.
package annotation
