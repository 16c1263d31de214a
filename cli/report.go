package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

// syntaxErrorPrefix leads the message printed for a malformed program.
const syntaxErrorPrefix = "Ошибка: "

// Report describes the error returned by [Run] and returns the process exit
// code. Syntax errors are printed to w as a single line; any other error is
// logged.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	if lang.IsSyntaxError(err) {
		fmt.Fprintln(w, syntaxErrorPrefix+err.Error())
	} else {
		log.Error("run failed", slog.Any("error", err))
	}

	return 1
}
