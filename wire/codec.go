package wire

import (
	"github.com/dekarrin/rezi"
	"github.com/parolgo/parol/icterr"
)

// Encode serializes t to REZI's binary format, the same EncBinary call the
// teacher uses to persist a *game.State blob.
func Encode(t *Tables) []byte {
	return rezi.EncBinary(t)
}

// Decode reads a Tables value previously produced by Encode. It errors if
// the decoded byte count doesn't exhaust data, mirroring the teacher's own
// post-DecBinary consumed-byte check (server/dao/sqlite/sqlite.go's
// convertFromDB_GameStatePtr).
func Decode(data []byte) (*Tables, error) {
	var t Tables
	n, err := rezi.DecBinary(data, &t)
	if err != nil {
		return nil, icterr.Wrap(icterr.CodeSyntaxError, err, "REZI decode of wire tables failed")
	}
	if n != len(data) {
		return nil, icterr.New(icterr.CodeSyntaxError, "REZI decode consumed %d/%d bytes", n, len(data))
	}
	return &t, nil
}
