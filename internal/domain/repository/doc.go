// Package repository define los puertos de persistencia del dominio (DIP).
//
// Convención: los métodos Get*/Find* devuelven (nil, nil) cuando el registro no existe;
// el caso de uso decide si eso es domain.ErrNotFound. Todas las consultas se acotan al hogar.
package repository
