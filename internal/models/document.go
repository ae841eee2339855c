package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeNormativa          DocumentType = "normativa"
	DocumentTypeProcedimiento      DocumentType = "procedimiento"
	DocumentTypeProtocoloReclamo   DocumentType = "protocolo_reclamo"
	DocumentTypeAutoridadOperativa DocumentType = "autoridad_operativa"
	DocumentTypeRegularizacion     DocumentType = "regularizacion"
	DocumentTypeDesconocido        DocumentType = "desconocido"
)

type ProcedureType string

const (
	ProcedureTypeGeneral ProcedureType = "general"
	ProcedureTypeReclamo ProcedureType = "reclamo"
)

// Classification is the coarse category inferred from a document title.
// It is computed once per document and copied onto every chunk, never
// recomputed per chunk.
type Classification struct {
	DocumentType  DocumentType
	ProcedureType ProcedureType
}

// Document is a registered source document. ChunkCount and ChunkIDs are set
// together once embedding generation completes; a document with ChunkIDs nil
// has not been indexed yet.
type Document struct {
	ID            uuid.UUID     `db:"id"`
	Title         string        `db:"title"`
	RawText       string        `db:"raw_text"`
	DocumentType  DocumentType  `db:"document_type"`
	ProcedureType ProcedureType `db:"procedure_type"`
	ChunkCount    int           `db:"chunk_count"`
	ChunkIDs      []string      `db:"chunk_ids"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// Processed reports whether embedding generation finished for this document.
func (d *Document) Processed() bool {
	return len(d.ChunkIDs) > 0
}
