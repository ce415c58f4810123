package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"

	"afyaconnect_back_end_go/db"

	"github.com/stretchr/testify/require"
)

// pngData starts with the PNG signature, which is all content sniffing needs.
var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.InitDatabase(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "afya.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = db.Seed(ctx, conn)
	require.NoError(t, err)
	return conn
}

func countRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()
	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}

func fileHeader(t *testing.T, field, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File[field][0]
}
