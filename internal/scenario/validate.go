// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package scenario

import (
	"github.com/ChainSafe/inclusion-emulator/lib/common"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	// Registering cannot fail for a non-empty tag and non-nil function.
	_ = validate.RegisterValidation("hash", isHash)
	_ = validate.RegisterValidation("hexbytes", isHexBytes)
	return validate
}

// isHash checks the field is a 0x prefixed hex string of exactly 32 bytes.
func isHash(fl validator.FieldLevel) bool {
	_, err := common.ParseHash(fl.Field().String())
	return err == nil
}

// isHexBytes checks the field is a 0x prefixed hex string.
func isHexBytes(fl validator.FieldLevel) bool {
	_, err := common.HexToBytes(fl.Field().String())
	return err == nil
}
