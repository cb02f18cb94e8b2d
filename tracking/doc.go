// Package tracking keeps the observer's last two position samples and
// derives speed from them.
//
// A Tracker starts Unsampled. The first recorded Sample moves it to Sampled
// with previous == current; every later Sample shifts current into previous.
// Speed is the great-circle distance between the two samples divided by the
// time between their timestamps, falling back to the nominal sampling
// interval when timestamps are missing.
package tracking
