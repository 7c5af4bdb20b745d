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

// Package output writes preview records as NDJSON (Newline Delimited JSON).
// Dry runs and runs whose timeline credentials were rejected emit one line
// per posting that would have been published, so the result can be
// inspected or piped into other tools.
//
// Example usage:
//
//	w, err := output.Open("-")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(posting); err != nil {
//	    return err
//	}
package output
