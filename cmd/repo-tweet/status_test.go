// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CredentialStore(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, credentialFile)

	var out bytes.Buffer
	require.NoError(t, runStatus(&out, path, false))

	assert.Contains(t, out.String(), "o/r")
	assert.Contains(t, out.String(), "@repotweet")
	assert.Contains(t, out.String(), "#5")
	assert.Contains(t, out.String(), path)
	assert.NotContains(t, out.String(), "Last run")
}

func TestStatus_NoMark(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "source:\n  api_token: t\n  repo_name: o/r\nsink:\n  screen_name: acct\n")

	var out bytes.Buffer
	require.NoError(t, runStatus(&out, path, false))
	assert.Contains(t, out.String(), "none")
}

func TestStatus_JSONWithoutReports(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, credentialFile)

	err := runStatus(&bytes.Buffer{}, path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run report")
}

func TestStatus_Command(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, credentialFile)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"status", "--config", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "#5")
}
