// SPDX-License-Identifier: EPL-2.0

package layout

import "errors"

var (
	ErrUnsupportedVersion = errors.New("unsupported layout version")
	ErrMissingPath        = errors.New("placement has no source path")
)
