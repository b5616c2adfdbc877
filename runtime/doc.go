// Package runtime is the session layer between a transliteration engine
// and its consumers.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	id, err := rt.Open(producer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := rt.Transliterate(ctx, id, "namaskaaram")
//	if err != nil {
//	    log.Fatal(rt.LastError(id))
//	}
//	defer res.Destroy()
//
// # Producers
//
// A Producer returns plain Go values; the runtime copies them into owned
// result records. Optional capabilities are discovered by interface:
//
//	Learner         - Learn, Unlearn, Train
//	FileLearner     - LearnFromFile, TrainFromFile
//	SymbolSearcher  - SearchSymbols
//	SchemeLister    - Schemes
//	RecentWords     - RecentlyLearned
//	Configurable    - receives EngineConfig on Open and Configure
//	Reindexer       - ReindexDictionary
//
// Calling an operation the producer does not implement fails with an
// unsupported error.
//
// # Cancellation
//
// TransliterateWithID registers a request under a caller-chosen
// OperationID. Cancel from any goroutine makes it return a nil result:
//
//	go func() { res, err = rt.TransliterateWithID(ctx, id, 7, word) }()
//	rt.Cancel(7)
//
// # Exporting Records
//
// Export hands a record to the handle table; ExportToMemory also encodes
// it into the engine's linear memory and keeps the address as the
// handle's representation. Destroy(handle) releases both and returns a
// flat Status:
//
//	h, addr, err := rt.ExportToMemory(nil, res)
//	// consumer reads the record at addr
//	status := rt.Destroy(h) // StatusSuccess
//	status = rt.Destroy(h)  // StatusMisuse
//
// # Configuration
//
// LoadConfig reads VARNAM_* environment variables:
//
//	VARNAM_INDIC_DIGITS                   bool
//	VARNAM_DICTIONARY_SUGGESTIONS_LIMIT   int, default 10
//	VARNAM_TOKENIZER_SUGGESTIONS_LIMIT    int, default 10
//	VARNAM_TOKENIZER_SUGGESTIONS_ALWAYS   bool
//	VARNAM_LAYOUT                         wasm32 or lp64
//	VARNAM_MEMORY_LIMIT_PAGES             uint32
//	VARNAM_MAX_SESSIONS                   int
package runtime
