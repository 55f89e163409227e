/*
Package ports defines the driven-side interfaces of the Espalier engine.

Adapters (memory, file, redis) implement these contracts so the storage and
loading layers stay decoupled from the engine core, following Hexagonal
Architecture. The package also ships a reusable contract test suite so every
RunStore implementation is verified against the same semantics.
*/
package ports
