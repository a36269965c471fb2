package models

import "time"

// TestResult is one finished typing test. Results are written locally first
// and pushed to the server opportunistically when a user is signed in.
type TestResult struct {
	// ID is a globally unique identifier assigned when the result is saved.
	ID string

	// WPM is the net words-per-minute score.
	WPM int

	// Accuracy is the percentage of correctly typed characters, 0-100.
	Accuracy int

	// Mode is the test mode ("time", "words", ...).
	Mode string

	// TestValue is the mode parameter (seconds for "time", count for "words").
	TestValue int

	// Correct and Incorrect are keystroke counts.
	Correct   int
	Incorrect int

	// TotalChars is the total number of characters typed.
	TotalChars int

	// DurationSeconds is the elapsed test duration.
	DurationSeconds int

	// CreatedAt is the completion time in UTC.
	CreatedAt time.Time
}

// Stats is an aggregate over the locally stored result history.
type Stats struct {
	Count       int
	BestWPM     int
	AvgWPM      int
	AvgAccuracy int
}
