// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

package routes

import (
	"github.com/undernetirc/otpgen/controllers"
)

// OTPRoutes registers the generation and verification endpoints
func (r *RouteService) OTPRoutes() {
	r.logger.Debug("Loading OTP routes")
	c := controllers.NewOTPController(controllers.DefaultsFromConfig(), r.otpMetrics)

	router := r.routerGroup.Group("/otp")
	router.POST("/hotp", c.GenerateHOTP)
	router.POST("/totp", c.GenerateTOTP)
	router.POST("/totp/verify", c.VerifyTOTP)
}
