package model

import "errors"

var (
	// ErrEntryNotFound indica que o registro não existe
	ErrEntryNotFound = errors.New("registro não encontrado")

	// ErrInvalidWindow indica janela de tendências fora do intervalo aceito
	ErrInvalidWindow = errors.New("janela de tendências inválida")
)
