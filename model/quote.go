/*
Copyright 2024 Noba Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

// Quote is the fee/conversion breakdown computed for a prospective
// transaction. It is ephemeral: produced fresh per request and never
// persisted directly. All monetary fields are formatted to exactly two
// decimal places; NobaRate is the platform rate verbatim at full precision.
type Quote struct {
	NobaFee             string `json:"nobaFee"`
	ProcessingFee       string `json:"processingFee"`
	TotalFee            string `json:"totalFee"`
	QuoteAmount         string `json:"quoteAmount"`
	QuoteAmountWithFees string `json:"quoteAmountWithFees"`
	NobaRate            string `json:"nobaRate"`
}
