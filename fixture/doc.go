// Package fixture provides a YAML-backed runtime.Producer.
//
// A fixture lists canned suggestions per input word, scheme details and
// symbols:
//
//	latency: 20ms
//	schemes:
//	  - {identifier: ml, lang_code: ml, display_name: Malayalam, stable: true}
//	symbols:
//	  - {id: 1, pattern: ka, value1: ക, tag: consonant}
//	words:
//	  namaskaaram:
//	    exact_words:
//	      - {word: നമസ്കാരം, weight: 5}
//	    tokenizer_suggestions: [നമസ്കാരം, നമസ്കാറം]
//
// Inputs are matched case-insensitively. Learn and Train add exact words
// in memory; the document on disk is never written.
package fixture
