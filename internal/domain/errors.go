package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoDataset     = errors.New("no hay dataset cargado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrAIUnavailable = errors.New("servicio de IA no configurado")
)
