// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthCheckController struct{}

func NewHealthCheckController() *HealthCheckController {
	return &HealthCheckController{}
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// HealthCheck reports that the service is up
func (ctr *HealthCheckController) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthCheckResponse{Status: "OK"})
}
