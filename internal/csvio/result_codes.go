package csvio

import (
	"strings"

	"betledger/internal/core"
)

// Result codes accepted on import, case-insensitive. The table covers the
// canonical names plus the short codes and Portuguese synonyms found in
// spreadsheets exported by bookmaker trackers.
var resultCodes = map[string]core.Result{
	"WIN":       core.ResultWin,
	"GREEN":     core.ResultWin,
	"GANHA":     core.ResultWin,
	"G":         core.ResultWin,
	"W":         core.ResultWin,
	"LOSS":      core.ResultLoss,
	"RED":       core.ResultLoss,
	"PERDIDA":   core.ResultLoss,
	"R":         core.ResultLoss,
	"L":         core.ResultLoss,
	"HALF_WIN":  core.ResultHalfWin,
	"HALFWIN":   core.ResultHalfWin,
	"MEIO GREEN": core.ResultHalfWin,
	"MG":        core.ResultHalfWin,
	"HALF_LOSS": core.ResultHalfLoss,
	"HALFLOSS":  core.ResultHalfLoss,
	"MEIO RED":  core.ResultHalfLoss,
	"MR":        core.ResultHalfLoss,
	"CASHOUT":   core.ResultCashOut,
	"CASH OUT":  core.ResultCashOut,
	"C":         core.ResultCashOut,
	"VOID":      core.ResultVoid,
	"REEMBOLSO": core.ResultVoid,
	"ANULADA":   core.ResultVoid,
	"V":         core.ResultVoid,
	"PENDING":   core.ResultPending,
	"PENDENTE":  core.ResultPending,
	"P":         core.ResultPending,
}

// ParseResultCode maps a result code or synonym to a Result.
func ParseResultCode(s string) (core.Result, error) {
	code := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if r, ok := resultCodes[code]; ok {
		return r, nil
	}
	return "", core.NewValidationError("result", "unknown result code "+s)
}
