package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/user"
	dummydb "github.com/learnifyhq/learnify/storage/database/dummy"
)

func Test_commandLine_run(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	usrSvc := user.NewService(dummydb.NewUserRepository(db))

	usr, err := usrSvc.Register(context.Background(), user.NewUser{UID: "fb-1", Name: "Jane Doe", Email: "jane@test.cd"})
	require.NoError(t, err)

	// ensureindexes is not exercised here; it needs a live database
	cli := commandLine{usrSvc: usrSvc}

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no subcommand", args: []string{"admin"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"admin", "dropall"}, wantErr: errHelp},
		{name: "promoteteacher missing email", args: []string{"admin", "promoteteacher"}, wantErr: errHelp},
		{name: "promoteteacher unknown email", args: []string{"admin", "promoteteacher", "-email", "ghost@test.cd"}, wantErr: user.ErrNotFound},
		{name: "promoteteacher ok", args: []string{"admin", "promoteteacher", "-email", "Jane@Test.cd"}},
		{name: "makeadmin missing id", args: []string{"admin", "makeadmin"}, wantErr: errHelp},
		{name: "makeadmin ok", args: []string{"admin", "makeadmin", "-id", usr.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(tt.args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	role, err := usrSvc.GetRoleByUID(context.Background(), "fb-1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, role)
}
