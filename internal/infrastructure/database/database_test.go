package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminTarget(t *testing.T) {
	tests := []struct {
		name      string
		dsn       string
		wantOK    bool
		wantDB    string
		wantAdmin string
	}{
		{
			name:      "url dsn",
			dsn:       "postgres://app:secret@db:5432/chat_api?sslmode=disable",
			wantOK:    true,
			wantDB:    "chat_api",
			wantAdmin: "postgres://app:secret@db:5432/postgres?sslmode=disable",
		},
		{name: "maintenance db", dsn: "postgres://app@db/postgres"},
		{name: "no db", dsn: "postgres://app@db"},
		{name: "keyword dsn", dsn: "host=db user=app dbname=chat_api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, admin, ok := adminTarget(tt.dsn)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDB, db)
			assert.Equal(t, tt.wantAdmin, admin)
		})
	}
}

func TestPQQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"chat_api"`, pqQuoteIdentifier("chat_api"))
	assert.Equal(t, `"we""ird"`, pqQuoteIdentifier(`we"ird`))
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect(Config{})
	assert.Error(t, err)
}
