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

// Package timeline is the posting side of repo-tweet. A Sink authenticates
// against the timeline service and hands back a Timeline that can read the
// account's recent postings and publish new ones.
//
// TwitterSink talks to the Twitter API v2. It supports two credential sets:
//
//	sink:
//	  bearer_credentials:   # app-only bearer token, read access
//	    consumer_key: ...
//	    consumer_secret: ...
//	  api_keys:             # OAuth1 user context, read and write
//	    consumer_key: ...
//	    consumer_secret: ...
//	    access_token: ...
//	    access_token_secret: ...
//
// When both are present api_keys win, since app-only tokens cannot create
// tweets.
package timeline
