// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

package routes

import (
	"github.com/undernetirc/otpgen/controllers"
)

// HealthCheckRoutes Adds health check endpoint to determine if the service is up (useful for load balancers or k8s)
func (r *RouteService) HealthCheckRoutes() {
	r.logger.Debug("Loading health check routes")
	c := controllers.NewHealthCheckController()
	r.e.GET("/health-check", c.HealthCheck)
}
