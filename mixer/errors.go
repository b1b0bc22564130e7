// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

// ErrMixPrecondition is returned by MixAll on an empty timeline. Check
// Timeline.IsEmpty first.
var ErrMixPrecondition = errors.New("mix precondition: timeline is empty")
