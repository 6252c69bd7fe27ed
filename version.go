package main

// Version is the bop CLI version. It can be overridden via ldflags.
var Version = "0.3.0"
