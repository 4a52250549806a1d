// Package fragment locates semantic sub-trees in parsed HTML and extracts
// normalized fields from them.
//
// Locating never fails: a selector chain that matches nothing yields an empty
// selection, because a missing section is the normal case across the source
// site's page templates. Extraction never fails either; every field carries a
// default that is returned when the element or attribute is absent.
package fragment
