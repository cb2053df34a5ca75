// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

// CheckedAdd exposes checkedAdd for overflow tests.
var CheckedAdd = checkedAdd

// MaxCount is the largest reported count.
const MaxCount = maxCount
