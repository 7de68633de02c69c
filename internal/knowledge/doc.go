// Package knowledge implements the keyword-matching answer engine behind the
// chat widget's mock backend.
//
// A KnowledgeBase holds hand-authored entries in insertion order. A Matcher
// normalizes the incoming text and ranks entries in two passes: a literal
// substring pass, then a word-overlap pass used only when the first finds no
// candidate. The best score above a fixed threshold wins; otherwise a
// default answer is returned.
package knowledge
