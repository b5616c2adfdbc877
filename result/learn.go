package result

// LearnStatus tallies a bulk learn or train run. It owns nothing and is
// passed by value.
type LearnStatus struct {
	TotalWords  int
	FailedWords int
}

func NewLearnStatus(totalWords, failedWords int) LearnStatus {
	return LearnStatus{TotalWords: totalWords, FailedWords: failedWords}
}

// Learnt returns the number of words that were learnt successfully.
func (s LearnStatus) Learnt() int {
	return s.TotalWords - s.FailedWords
}
