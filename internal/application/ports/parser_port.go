package ports

import (
	"io"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// DatasetParser define el puerto de entrada para parsear los archivos del POS
// a entidades de dominio. El adaptador CSV es la implementación por defecto;
// el contrato no asume formato.
//
// Cada método valida las columnas requeridas de su archivo y devuelve un error
// descriptivo (fila y columna) ante datos malformados.
type DatasetParser interface {
	ParseTransactions(r io.Reader) ([]entity.Transaction, error)
	ParseRefunds(r io.Reader) ([]entity.Refund, error)
	ParsePayouts(r io.Reader) ([]entity.Payout, error)
	ParseProducts(r io.Reader) ([]entity.Product, error)
}
