package controllers

import "github.com/gofiber/fiber/v2"

// Respostas de erro padronizadas dos controladores

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(400).JSON(fiber.Map{"error": true, "message": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(401).JSON(fiber.Map{"error": true, "message": "Necessário estar autenticado"})
}

func conflict(c *fiber.Ctx, message string) error {
	return c.Status(409).JSON(fiber.Map{"error": true, "message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(404).JSON(fiber.Map{"error": true, "message": message})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(500).JSON(fiber.Map{"error": true, "message": message})
}
