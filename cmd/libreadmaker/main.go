// Command libreadmaker builds the analyzer as a C shared library:
//
//	go build -buildmode=c-shared -o libreadmaker.so ./cmd/libreadmaker
//
// Every string returned by this library must be released with free_string
// exactly once; a second release is a caller contract violation.
// Input strings are borrowed for the duration of the call only.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/example/go-readmaker/internal/capi"
)

//export analyze_text
func analyze_text(input *C.char) *C.char {
	return (*C.char)(capi.AnalyzeText(unsafe.Pointer(input)))
}

//export analyze_text_rich
func analyze_text_rich(input *C.char) *C.char {
	return (*C.char)(capi.AnalyzeTextRich(unsafe.Pointer(input)))
}

//export free_string
func free_string(ptr *C.char) {
	capi.FreeString(unsafe.Pointer(ptr))
}

//export test_bridge
func test_bridge() *C.char {
	return (*C.char)(capi.TestBridge())
}

//export set_dictionary_path
func set_dictionary_path(path *C.char) C.int {
	return C.int(capi.SetDictionaryPath(unsafe.Pointer(path)))
}

//export reload_dictionary
func reload_dictionary() C.int {
	return C.int(capi.ReloadDictionary())
}

//export dictionary_state
func dictionary_state() C.int {
	return C.int(capi.DictionaryState())
}

func main() {}
