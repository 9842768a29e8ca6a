package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/reqsift/reqsift/pkg/cli"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"reqsift": cli.Execute,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
	})
}
