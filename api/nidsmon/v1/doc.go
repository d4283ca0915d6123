// Package nidsmonv1 declares the nidsmon.v1.MonitorService gRPC contract.
//
// Messages are protobuf well-known types: requests without parameters are
// google.protobuf.Empty and everything else is a google.protobuf.Struct whose
// fields follow the JSON shape of the Go types in this package. ToStruct and
// FromStruct convert between the two through protojson.
package nidsmonv1
