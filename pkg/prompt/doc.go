/*
Package prompt assembles the message sequences sent to the completion service.

Templates are plain text (usually markdown) loaded once at startup through a
ports.TemplateSource. The assembler never touches storage at request time.

The greeting prompt keeps only the first words of the user query. This is a lossy
summarization step for the greeting turn; it is not a sanitization or security boundary.
*/
package prompt
