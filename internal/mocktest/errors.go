package mocktest

import "errors"

var (
	ErrMissingPaperSelection = errors.New("please select a paper to generate the mock test")
	ErrUnknownPaper          = errors.New("unknown paper")
	ErrUnknownQuestion       = errors.New("unknown previous year question")
	ErrMissingCredential     = errors.New("please enter your API key to generate the test")
	ErrGenerationInProgress  = errors.New("a mock test is already being generated")
	ErrGenerationFailure     = errors.New("failed to generate mock test, please check your API key and try again")
	ErrNoTest                = errors.New("no mock test generated yet")
)
