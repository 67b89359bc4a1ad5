// Package server implements the params endpoint the demo page posts its
// metric inputs to.
//
// POST /demo/params takes a multipart form whose entries are named
// "<metricKey>;<inputName>" and answers, as text/plain, the query
// fragment carrying one parameter per metric whose inputs were all
// submitted, in catalog order. GET /demo/metrics lists the demo inputs as
// JSON and GET /healthz reports liveness.
package server
